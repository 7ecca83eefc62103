// Package constants provides named constants used throughout the radonsim codebase.
// This centralizes the "6+1" protocol numbers and the import bounds in one place.
package constants

// Protocol "6+1" constants
const (
	// HoursPerSlot is the length of one measurement slot (one day).
	HoursPerSlot = 24

	// RoomSlots is the number of normal-room slots in a campaign.
	RoomSlots = 6

	// Slots is the total number of slots per campaign: six rooms plus one cellar.
	Slots = RoomSlots + 1

	// CampaignHours is the length of a campaign's value chain (one week).
	CampaignHours = Slots * HoursPerSlot

	// CellarHours is the number of values attributed to the cellar slot.
	CellarHours = HoursPerSlot

	// RoomHours is the number of values attributed to the normal-room slots.
	RoomHours = RoomSlots * HoursPerSlot
)

// Import bounds. The engine assumes these hold for any building handed to it;
// the dataset package is the only place that enforces them.
const (
	// MinValueCount is the minimum number of hourly values per room.
	MinValueCount = CampaignHours

	// MaxValueCount is the maximum number of hourly values per room (six weeks).
	MaxValueCount = 6 * CampaignHours

	// MinRooms is the minimum number of normal rooms needed to generate patterns.
	MinRooms = 3

	// MaxRooms is the practical upper bound on normal rooms per building.
	MaxRooms = 8

	// MinCellars is the minimum number of cellar rooms per building.
	MinCellars = 1

	// MaxCellars is the practical upper bound on cellar rooms per building.
	MaxCellars = 4
)

// Statistics constants
const (
	// LowerQuantile is the percentile used as the lower bound of the quantile deviation.
	LowerQuantile = 5.0

	// MedianQuantile is the percentile used as the center of the quantile deviation.
	MedianQuantile = 50.0

	// UpperQuantile is the percentile used as the upper bound of the quantile deviation.
	UpperQuantile = 95.0
)

// Simulation defaults
const (
	// DefaultRandomCampaigns is the default number of campaigns drawn in random mode.
	DefaultRandomCampaigns = 10000

	// DefaultWorkers is the default number of goroutines used by the engine.
	DefaultWorkers = 1

	// ProgressInterval is how many campaigns are folded between progress events.
	ProgressInterval = 10000
)

// Storage constants
const (
	// DataDirName is the name of the per-project data directory.
	DataDirName = ".radonsim"

	// DatabaseName is the SQLite database file name inside the data directory.
	DatabaseName = "radonsim.db"

	// RunLogName is the JSONL run-event log file name inside the data directory.
	RunLogName = "runs.jsonl"
)
