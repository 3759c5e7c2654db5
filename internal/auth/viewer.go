package auth

// ViewerKind tags the effective viewer of a request.
type ViewerKind int

const (
	ViewerUnauthenticated ViewerKind = iota
	ViewerAdmin
	ViewerAdminImpersonating
	ViewerEmployee
)

func (k ViewerKind) String() string {
	switch k {
	case ViewerAdmin:
		return "admin"
	case ViewerAdminImpersonating:
		return "admin_impersonating"
	case ViewerEmployee:
		return "employee"
	default:
		return "unauthenticated"
	}
}

// ViewerState says who is looking and, where it applies, whose data they
// see. EmployeeID is set for ViewerEmployee and ViewerAdminImpersonating.
type ViewerState struct {
	Kind       ViewerKind
	EmployeeID int64
}

// Unauthenticated is the zero viewer.
func Unauthenticated() ViewerState { return ViewerState{Kind: ViewerUnauthenticated} }

// AdminViewer is an admin with no impersonation target.
func AdminViewer() ViewerState { return ViewerState{Kind: ViewerAdmin} }

// AdminViewing is an admin looking at employeeID's dashboard.
func AdminViewing(employeeID int64) ViewerState {
	return ViewerState{Kind: ViewerAdminImpersonating, EmployeeID: employeeID}
}

// EmployeeViewer is an employee looking at their own dashboard.
func EmployeeViewer(employeeID int64) ViewerState {
	return ViewerState{Kind: ViewerEmployee, EmployeeID: employeeID}
}

// IsAdmin reports whether the viewer is an admin, impersonating or not.
func (v ViewerState) IsAdmin() bool {
	return v.Kind == ViewerAdmin || v.Kind == ViewerAdminImpersonating
}

// DashboardEmployee returns the employee whose dashboard the viewer may see.
func (v ViewerState) DashboardEmployee() (int64, bool) {
	switch v.Kind {
	case ViewerEmployee, ViewerAdminImpersonating:
		return v.EmployeeID, true
	default:
		return 0, false
	}
}

// ResolveViewer derives the viewer from session state.
func ResolveViewer(s *Session) ViewerState {
	if s == nil || !s.Authenticated {
		return Unauthenticated()
	}
	if s.IsAdmin {
		if s.ImpersonatedEmployeeID == nil {
			return AdminViewer()
		}
		return AdminViewing(*s.ImpersonatedEmployeeID)
	}
	if s.EmployeeID == nil {
		return Unauthenticated()
	}
	return EmployeeViewer(*s.EmployeeID)
}
