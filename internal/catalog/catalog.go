package catalog

// Fixed coordinate space for lecture scheduling. Days, time slots and
// divisions are immutable enumerations; their declaration order is the
// canonical display order.

// Days of the teaching week, Monday through Saturday.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimeSlots in chronological order.
var TimeSlots = []string{"9-10", "10-11", "11:15-12:15", "12:15-1:15", "3-4"}

// Divisions are the student cohorts lectures are scheduled against.
var Divisions = []string{"A", "B", "C", "D"}

// DefaultDivision is used when a view does not select one.
const DefaultDivision = "A"

// Break is a display-only marker interposed in the slot order. Breaks carry
// no lecture data and never match a lecture record.
type Break struct {
	Label string
	// AfterSlot names the time slot the break row follows.
	AfterSlot string
}

// Breaks in slot order: a short break after "10-11" and the lunch break
// after "12:15-1:15".
var Breaks = []Break{
	{Label: "Short Break", AfterSlot: "10-11"},
	{Label: "Lunch Break", AfterSlot: "12:15-1:15"},
}

var (
	dayIndex      = indexOf(Days)
	slotIndex     = indexOf(TimeSlots)
	divisionIndex = indexOf(Divisions)
	breakAfter    = breaksBySlot(Breaks)
)

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}

func breaksBySlot(breaks []Break) map[string]Break {
	m := make(map[string]Break, len(breaks))
	for _, b := range breaks {
		m[b.AfterSlot] = b
	}
	return m
}

// ValidDay reports whether day is part of the teaching week.
func ValidDay(day string) bool {
	_, ok := dayIndex[day]
	return ok
}

// ValidTimeSlot reports whether slot is one of the fixed time slots.
func ValidTimeSlot(slot string) bool {
	_, ok := slotIndex[slot]
	return ok
}

// ValidDivision reports whether division is one of the fixed cohorts.
func ValidDivision(division string) bool {
	_, ok := divisionIndex[division]
	return ok
}

// DayOrder returns the display position of day, or -1 when unknown.
func DayOrder(day string) int {
	if i, ok := dayIndex[day]; ok {
		return i
	}
	return -1
}

// TimeSlotOrder returns the chronological position of slot, or -1 when unknown.
func TimeSlotOrder(slot string) int {
	if i, ok := slotIndex[slot]; ok {
		return i
	}
	return -1
}

// DivisionOrder returns the display position of division, or -1 when unknown.
func DivisionOrder(division string) int {
	if i, ok := divisionIndex[division]; ok {
		return i
	}
	return -1
}

// BreakAfter returns the break interposed after slot, if any.
func BreakAfter(slot string) (Break, bool) {
	b, ok := breakAfter[slot]
	return b, ok
}
