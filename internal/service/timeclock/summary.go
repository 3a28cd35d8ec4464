package timeclock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/payperiod"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// GetMyEntries implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) GetMyEntries(ctx context.Context, req timeclock.MyEntriesRequest) (timeclock.MyEntriesResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.MyEntriesResponse{}, err
	}

	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.MyEntriesResponse{}, err
	}

	period, err := s.periods.Period(req.PeriodIndex)
	if err != nil {
		return timeclock.MyEntriesResponse{}, fmt.Errorf("failed to compute pay period: %w", err)
	}

	entries, err := s.EntryRepository.ListByRange(ctx, timeclock.EntryFilter{
		Start:          period.Start,
		End:            period.End,
		UserID:         &actor.ID,
		AllDepartments: true,
	})
	if err != nil {
		return timeclock.MyEntriesResponse{}, fmt.Errorf("failed to list timeclock entries: %w", err)
	}

	overtime, err := s.store.Overtime(ctx)
	if err != nil {
		return timeclock.MyEntriesResponse{}, err
	}

	summary := summarizeEmployee(entries, overtime, s.periods.Location())
	summary.UserID = actor.ID
	summary.EmployeeName = actor.FullName
	summary.DepartmentID = actor.DepartmentID
	summary.DepartmentName = actor.DepartmentName

	return timeclock.MyEntriesResponse{
		Period:  toPayPeriodResponse(period),
		Summary: summary,
		Entries: toEntryResponses(entries),
	}, nil
}

// GetTeamSummary implements timeclock.TimeclockService. Employees outside
// the actor's scope are left out of the result rather than failing the call.
func (s *TimeclockServiceImpl) GetTeamSummary(ctx context.Context, req timeclock.TeamSummaryRequest) (timeclock.TeamSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.TeamSummaryResponse{}, err
	}

	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.TeamSummaryResponse{}, err
	}
	if !actor.Capabilities().CanSeeOthers() {
		return timeclock.TeamSummaryResponse{}, timeclock.ErrMissingCapability
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return timeclock.TeamSummaryResponse{}, err
	}
	if req.DepartmentID != nil {
		scope = scope.Narrow(*req.DepartmentID)
	}

	period, err := s.periods.Period(req.PeriodIndex)
	if err != nil {
		return timeclock.TeamSummaryResponse{}, fmt.Errorf("failed to compute pay period: %w", err)
	}

	overtime, err := s.store.Overtime(ctx)
	if err != nil {
		return timeclock.TeamSummaryResponse{}, err
	}

	resp := timeclock.TeamSummaryResponse{
		Period:            toPayPeriodResponse(period),
		Employees:         []timeclock.EmployeeSummary{},
		Departments:       []timeclock.DepartmentSummary{},
		Entries:           []timeclock.EntryResponse{},
		BulkApprovableIDs: []string{},
		Overtime:          toOvertimeConfigResponse(overtime),
	}

	filter := timeclock.EntryFilter{
		Start:          period.Start,
		End:            period.End,
		DepartmentIDs:  scope.DepartmentIDs(),
		AllDepartments: scope.IsAll(),
	}
	if !filter.AllDepartments && len(filter.DepartmentIDs) == 0 {
		return resp, nil
	}

	entries, err := s.EntryRepository.ListByRange(ctx, filter)
	if err != nil {
		return timeclock.TeamSummaryResponse{}, fmt.Errorf("failed to list timeclock entries: %w", err)
	}

	built := BuildTeamSummary(entries, scope, overtime, s.periods.Location())
	resp.Employees = built.Employees
	resp.Departments = built.Departments
	resp.Entries = built.Entries
	resp.BulkApprovableIDs = built.BulkApprovableIDs
	return resp, nil
}

// TeamSummary is the scope-filtered rollup of a set of entries.
type TeamSummary struct {
	Employees         []timeclock.EmployeeSummary
	Departments       []timeclock.DepartmentSummary
	Entries           []timeclock.EntryResponse
	BulkApprovableIDs []string
}

// BuildTeamSummary groups entries by owner and department. Entries whose
// owner is outside scope are dropped.
func BuildTeamSummary(entries []timeclock.Entry, scope Scope, cfg timeclock.OvertimeConfig, loc *time.Location) TeamSummary {
	out := TeamSummary{
		Employees:         []timeclock.EmployeeSummary{},
		Departments:       []timeclock.DepartmentSummary{},
		Entries:           []timeclock.EntryResponse{},
		BulkApprovableIDs: []string{},
	}

	byUser := make(map[string][]timeclock.Entry)
	var userOrder []string
	for _, e := range entries {
		if !scope.Includes(e.OwnerDepartment()) {
			continue
		}
		if _, seen := byUser[e.UserID]; !seen {
			userOrder = append(userOrder, e.UserID)
		}
		byUser[e.UserID] = append(byUser[e.UserID], e)
		out.Entries = append(out.Entries, toEntryResponse(e))
		if e.BulkApprovable() {
			out.BulkApprovableIDs = append(out.BulkApprovableIDs, e.ID)
		}
	}

	departments := make(map[string]*timeclock.DepartmentSummary)
	var deptOrder []string

	for _, userID := range userOrder {
		own := byUser[userID]
		first := own[0]

		summary := summarizeEmployee(own, cfg, loc)
		summary.UserID = userID
		if first.EmployeeName != nil {
			summary.EmployeeName = *first.EmployeeName
		}
		summary.DepartmentID = first.DepartmentID
		summary.DepartmentName = first.DepartmentName
		out.Employees = append(out.Employees, summary)

		key := first.OwnerDepartment()
		dept, ok := departments[key]
		if !ok {
			dept = &timeclock.DepartmentSummary{
				DepartmentID:   first.DepartmentID,
				DepartmentName: first.DepartmentName,
			}
			departments[key] = dept
			deptOrder = append(deptOrder, key)
		}
		dept.EmployeeCount++
		dept.RegularMinutes += summary.Overtime.RegularMinutes
		dept.OvertimeMinutes += summary.Overtime.OvertimeMinutes
		dept.TotalMinutes += summary.Overtime.TotalMinutes
		addCounts(&dept.StatusCounts, summary.StatusCounts)
	}

	sort.SliceStable(out.Employees, func(i, j int) bool {
		return out.Employees[i].EmployeeName < out.Employees[j].EmployeeName
	})

	sort.Strings(deptOrder)
	for _, key := range deptOrder {
		dept := departments[key]
		dept.TotalHours = minutesToHours(dept.TotalMinutes)
		out.Departments = append(out.Departments, *dept)
	}

	return out
}

// summarizeEmployee counts statuses over every entry and aggregates
// overtime over closed entries that are not rejected.
func summarizeEmployee(entries []timeclock.Entry, cfg timeclock.OvertimeConfig, loc *time.Location) timeclock.EmployeeSummary {
	var summary timeclock.EmployeeSummary
	counted := make([]timeclock.Entry, 0, len(entries))

	for _, e := range entries {
		summary.EntryCount++
		if e.FlagReason != nil {
			summary.FlaggedCount++
		}

		switch timeclock.StateOf(e) {
		case timeclock.StateOpen:
			summary.StatusCounts.Open++
			continue
		case timeclock.StatePending:
			summary.StatusCounts.Pending++
		case timeclock.StateSubmitted:
			summary.StatusCounts.Submitted++
		case timeclock.StateApproved:
			summary.StatusCounts.Approved++
		case timeclock.StateRejected:
			summary.StatusCounts.Rejected++
			continue
		}
		counted = append(counted, e)
	}

	summary.Overtime = Aggregate(counted, cfg, loc)
	summary.RegularHours = minutesToHours(summary.Overtime.RegularMinutes)
	summary.OvertimeHours = minutesToHours(summary.Overtime.OvertimeMinutes)
	summary.TotalHours = minutesToHours(summary.Overtime.TotalMinutes)
	return summary
}

func addCounts(dst *timeclock.StatusCounts, src timeclock.StatusCounts) {
	dst.Open += src.Open
	dst.Pending += src.Pending
	dst.Submitted += src.Submitted
	dst.Approved += src.Approved
	dst.Rejected += src.Rejected
}

func minutesToHours(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(sixty).Round(2)
}

func toPayPeriodResponse(p payperiod.Period) timeclock.PayPeriodResponse {
	return timeclock.PayPeriodResponse{
		Index:     p.Index,
		StartDate: p.StartDate(),
		EndDate:   p.EndDate(),
		IsCurrent: p.IsCurrent(),
	}
}
