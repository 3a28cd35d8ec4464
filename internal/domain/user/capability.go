package user

// Capabilities is the closed set of timeclock capabilities a user can hold.
// Roles map to a fixed value; there are no free-form permission keys.
type Capabilities struct {
	viewAllEntries          bool
	viewTeamEntries         bool
	approveEntries          bool
	editTeamEntries         bool
	manageTimeclockSettings bool
}

var roleCapabilities = map[Role]Capabilities{
	RoleOwner: {
		viewAllEntries:          true,
		viewTeamEntries:         true,
		approveEntries:          true,
		editTeamEntries:         true,
		manageTimeclockSettings: true,
	},
	RoleAdmin: {
		viewAllEntries:          true,
		viewTeamEntries:         true,
		approveEntries:          true,
		editTeamEntries:         true,
		manageTimeclockSettings: true,
	},
	RoleManager: {
		viewTeamEntries: true,
		approveEntries:  true,
		editTeamEntries: true,
	},
	RoleEmployee: {},
}

// CapabilitiesFor returns the capabilities granted to role. Unknown roles get none.
func CapabilitiesFor(role Role) Capabilities {
	return roleCapabilities[role]
}

// CanViewAllEntries is the global override: every department is in scope.
func (c Capabilities) CanViewAllEntries() bool { return c.viewAllEntries }

func (c Capabilities) CanViewTeamEntries() bool { return c.viewTeamEntries }

func (c Capabilities) CanApproveEntries() bool { return c.approveEntries }

func (c Capabilities) CanEditTeamEntries() bool { return c.editTeamEntries }

func (c Capabilities) CanManageTimeclockSettings() bool { return c.manageTimeclockSettings }

// CanSeeOthers reports whether any capability lets the holder look at entries
// owned by someone else.
func (c Capabilities) CanSeeOthers() bool {
	return c.viewAllEntries || c.viewTeamEntries || c.approveEntries || c.editTeamEntries
}
