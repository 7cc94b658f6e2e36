package schema

// Custom string types for type safety.
type (
	// Severity represents how urgent an issue is.
	Severity string

	// ImpactCategory represents which composite score an issue affects.
	ImpactCategory string

	// CheckCategory represents the aspect of the system a checker probes.
	CheckCategory string

	// Schedule represents how often automation scans run.
	Schedule string

	// StoreBackend represents the database backend for scan persistence.
	StoreBackend string

	// OutputMode represents the format of the output.
	OutputMode string
)

// All severities supported, ordered from most to least urgent.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank returns the sort rank of a severity. Lower ranks sort first.
// Unknown severities sink below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// All impact categories supported.
const (
	ImpactSecurity    ImpactCategory = "security"
	ImpactPerformance ImpactCategory = "performance"
	ImpactPrivacy     ImpactCategory = "privacy"
	ImpactBoth        ImpactCategory = "both"
)

// All checker categories supported.
const (
	CategorySecurity    CheckCategory = "security"
	CategoryPerformance CheckCategory = "performance"
	CategoryPrivacy     CheckCategory = "privacy"
	CategoryFirmware    CheckCategory = "firmware"
	CategoryThreat      CheckCategory = "threat"
	CategoryCompliance  CheckCategory = "compliance"
)

// All automation schedules supported.
const (
	DailySchedule   Schedule = "daily"
	WeeklySchedule  Schedule = "weekly" // default
	MonthlySchedule Schedule = "monthly"
)

// IntervalSeconds returns the fixed-seconds approximation of a schedule.
// Weekly and monthly intervals are not calendar-aware.
func (s Schedule) IntervalSeconds() uint64 {
	switch s {
	case DailySchedule:
		return 86_400
	case MonthlySchedule:
		return 30 * 86_400
	default:
		return 7 * 86_400
	}
}

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// ValidSchedules lists all valid automation schedules.
var ValidSchedules = map[Schedule]struct{}{
	DailySchedule:   {},
	WeeklySchedule:  {},
	MonthlySchedule: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}
