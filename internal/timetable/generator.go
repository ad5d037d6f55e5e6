package timetable

import "strings"

// GenerateOptions tunes a generation run.
type GenerateOptions struct {
	// Booked holds commitments made outside this run. They block the teacher's
	// periods but are never emitted.
	Booked []ScheduleSlot
	// Kind is stamped on every emitted slot. Defaults to regular.
	Kind SlotKind
}

// Placement reports how much of one obligation landed on the grid.
type Placement struct {
	Index      int                `json:"index"`
	Obligation TeachingObligation `json:"obligation"`
	Plan       Distribution       `json:"plan,omitempty"`
	Requested  int                `json:"requested"`
	Placed     int                `json:"placed"`
	Shortfall  int                `json:"shortfall"`
	Error      string             `json:"error,omitempty"`
}

// GenerationResult is the best-effort output of a run.
type GenerationResult struct {
	Slots      []ScheduleSlot `json:"slots"`
	Placements []Placement    `json:"placements"`
	Requested  int            `json:"requested"`
	Placed     int            `json:"placed"`
}

// Shortfall is the total number of requested periods that could not be placed.
func (r *GenerationResult) Shortfall() int {
	return r.Requested - r.Placed
}

// Unscheduled returns placements that were not fully satisfied.
func (r *GenerationResult) Unscheduled() []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.Shortfall > 0 || p.Error != "" {
			out = append(out, p)
		}
	}
	return out
}

// Generate places every obligation in the order given. Each obligation is spread over
// the working days and each unit takes the teacher's first open period that day.
// Only the obligation's own slots and opts.Booked are considered occupied, so
// collisions between obligations are left for Audit to report. Units that find no
// open period are dropped and show up as shortfall.
func Generate(obligations []TeachingObligation, grid TimeGrid, definitions []TimeSlotDefinition, opts GenerateOptions) (*GenerationResult, error) {
	catalog, err := NewPeriodCatalog(definitions, grid)
	if err != nil {
		return nil, err
	}
	kind := opts.Kind
	if kind == "" {
		kind = SlotKindRegular
	}
	booked := NewOccupancy(opts.Booked)

	result := &GenerationResult{
		Slots:      make([]ScheduleSlot, 0),
		Placements: make([]Placement, 0, len(obligations)),
	}
	for i, ob := range obligations {
		placement := Placement{Index: i, Obligation: ob, Requested: ob.WeeklyHours}
		if ob.WeeklyHours > 0 {
			result.Requested += ob.WeeklyHours
		}

		plan, err := Distribute(ob.WeeklyHours, grid.WorkingDays)
		if err != nil {
			placement.Error = err.Error()
			if ob.WeeklyHours > 0 {
				placement.Shortfall = ob.WeeklyHours
			}
			result.Placements = append(result.Placements, placement)
			continue
		}
		placement.Plan = plan

		occupied := booked.ForTeacher(ob.TeacherID)
		room := roomFor(ob)
		for _, load := range plan {
			for n := 0; n < load.Periods; n++ {
				period, ok := FindOpenPeriod(occupied, ob.TeacherID, load.Day, grid)
				if !ok {
					break
				}
				def := catalog[period]
				slot := ScheduleSlot{
					TeacherID: ob.TeacherID,
					ClassID:   ob.ClassID,
					SubjectID: ob.SubjectID,
					Day:       load.Day,
					Period:    period,
					StartTime: def.StartTime,
					EndTime:   def.EndTime,
					Room:      room,
					Kind:      kind,
				}
				occupied.Add(slot)
				result.Slots = append(result.Slots, slot)
				placement.Placed++
			}
		}
		placement.Shortfall = placement.Requested - placement.Placed
		result.Placed += placement.Placed
		result.Placements = append(result.Placements, placement)
	}
	return result, nil
}

func roomFor(ob TeachingObligation) string {
	if hint := strings.TrimSpace(ob.RoomHint); hint != "" {
		return hint
	}
	return ClassRoom(ob.ClassID)
}
