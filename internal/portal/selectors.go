// Package portal drives navigation across the HR portal's WebForms screens
// and suppresses the transient UI states (loading overlays, modal message
// boxes, locked popups) the portal raises asynchronously after postbacks.
package portal

import "amon/internal/browser"

// URL substrings identifying pages. The portal occasionally rewrites query
// strings, so only the page name is matched.
const (
	URLLogin      = "Login.aspx"
	URLHome       = "Home.aspx"
	URLRegularize = "AttRegularize.aspx"
	URLApplyLeave = "LeaveApply.aspx"
	URLLeaveStat  = "LeaveStatus.aspx"
	URLProfile    = "GeneralDetail.aspx"
)

// Login screen controls. The form is located positionally (first text
// input, first password input, first submit-like control) because the
// portal renames its auto-generated IDs between deployments.
const (
	SelLoginUser   = "input[type='text']"
	SelLoginPass   = "input[type='password']"
	SelLoginSubmit = "input[type='submit'], button[type='submit']"
)

// LoginValidatorProbes locate the inline validator span that carries the
// portal's login rejection message.
var LoginValidatorProbes = []browser.Probe{
	{Name: "login message label", Selector: "#lblLoginMessage"},
	{Name: "validation summary", Selector: "span[id*='ValidationSummary']"},
	{Name: "login error block", Selector: ".login-error"},
}

// HomeAnchorProbes locate the home navigation anchor, the cheapest marker
// of an authenticated page.
var HomeAnchorProbes = []browser.Probe{
	{Name: "home link by id", Selector: "a[id*='hlnkHome']"},
	{Name: "home link by href", Selector: "a[href*='Home.aspx']"},
}

// SelExpiryBanner is the banner whose text contains "expired" when the
// server has dropped the session without redirecting.
const SelExpiryBanner = "#lblSessionMsg, .session-message"

// ProgressProbes are the known async "update progress" indicators shown
// during partial postbacks.
var ProgressProbes = []browser.Probe{
	{Name: "update progress panel", Selector: "div[id*='UpdateProgress']"},
	{Name: "loading overlay", Selector: ".loading-overlay"},
	{Name: "ajax spinner", Selector: "#imgLoading"},
}

// Generic modal message box raised after postbacks.
const (
	SelMessageBox      = "div[id*='ModalMessage'], #msgBox"
	SelMessageBoxText  = "div[id*='ModalMessage'] span[id*='lblMessage'], #msgBoxText"
	SelMessageBoxClose = "div[id*='ModalMessage'] input[value='OK'], div[id*='ModalMessage'] .btn-close, #msgBoxClose"
)

// Regularize day popup controls.
const (
	SelRegPopup     = "div[id*='pnlRegularize']"
	SelRegShift     = "div[id*='pnlRegularize'] select[id*='ddlShift']"
	SelRegInTime    = "div[id*='pnlRegularize'] input[id*='txtInTime']"
	SelRegOutTime   = "div[id*='pnlRegularize'] input[id*='txtOutTime']"
	SelRegLeaveType = "div[id*='pnlRegularize'] select[id*='ddlType']"
	SelRegRemarks   = "div[id*='pnlRegularize'] input[id*='txtRemarks']"
	SelRegSubmit    = "div[id*='pnlRegularize'] input[id*='btnSubmit']"
	SelRegCancel    = "div[id*='pnlRegularize'] input[id*='btnCancel'], div[id*='pnlRegularize'] input[value='Cancel']"
	SelRegMonthDrop = "select[id*='ddlAttMonth']"
	SelRegGridCells = "table[id*='grdAttendance'] td"
)

// Apply-leave form controls.
const (
	SelLeaveType     = "select[id*='ddlLeaveType']"
	SelLeaveFromDate = "input[id*='txtFromDate']"
	SelLeaveToDate   = "input[id*='txtToDate']"
	SelLeaveDayPart  = "select[id*='ddlDayPart']"
	SelLeaveReason   = "textarea[id*='txtReason'], input[id*='txtReason']"
	SelLeaveApply    = "input[id*='btnApply']"
)

// Leave-status report table.
const SelLeaveStatusRows = "table[id*='grdLeaveStatus'] tr"

// Profile key/value table.
const SelProfileTable = "table[id*='tblGeneralDetail']"

// WFH leave type dropdown value and the rejection phrase the portal emits
// when the reason field arrived empty at the server.
const (
	WFHLeaveTypeValue  = "G"
	ReasonMandatoryMsg = "reason is mandatory"
)

// Screen describes one navigable destination: a cheap "already here" check
// plus the menu-click path used when not there.
type Screen struct {
	Name      string
	URLMarker string
	// Marker is a page-specific element proving the screen actually
	// rendered; URL alone lies when the DOM degraded in place.
	Marker string
	// MenuPath anchors are clicked in order with forced dispatch.
	MenuPath []string
}

var (
	ScreenRegularize = Screen{
		Name:      "regularize",
		URLMarker: URLRegularize,
		Marker:    SelRegMonthDrop,
		MenuPath:  []string{"a[id*='lnkAttendance']", "a[href*='AttRegularize']"},
	}
	ScreenApplyLeave = Screen{
		Name:      "apply_leave",
		URLMarker: URLApplyLeave,
		Marker:    SelLeaveType,
		MenuPath:  []string{"a[id*='lnkLeave']", "a[href*='LeaveApply']"},
	}
	ScreenLeaveStatus = Screen{
		Name:      "leave_status",
		URLMarker: URLLeaveStat,
		Marker:    "table[id*='grdLeaveStatus']",
		MenuPath:  []string{"a[id*='lnkLeave']", "a[href*='LeaveStatus']"},
	}
	ScreenProfile = Screen{
		Name:      "profile",
		URLMarker: URLProfile,
		Marker:    SelProfileTable,
		MenuPath:  []string{"a[id*='lnkMyInfo']", "a[href*='GeneralDetail']"},
	}
)
