package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/normalization"
)

// fingerprintInput fixes the field order of the hashed document. Notes are
// left out: they never reach the generators.
type fingerprintInput struct {
	FullName             string   `json:"fullName"`
	CurrentRole          string   `json:"currentRole"`
	YearsExperience      int      `json:"yearsExperience"`
	CurrentSkills        []string `json:"currentSkills"`
	TargetGoal           string   `json:"targetGoal"`
	WeeklyHours          int      `json:"weeklyHours"`
	CommuteMinutesPerDay int      `json:"commuteMinutesPerDay"`
	PreferredStudyTime   string   `json:"preferredStudyTime"`
	LowEnergyAfter       string   `json:"lowEnergyAfter"`
	WeekendAvailability  string   `json:"weekendAvailability"`
}

// Fingerprint is the hex SHA-256 of the normalized input: name and current
// role case-folded and trimmed, skills sorted.
func Fingerprint(in plan.CanonicalInput) string {
	doc := fingerprintInput{
		FullName:             normalization.Fold(in.FullName),
		CurrentRole:          normalization.Fold(in.CurrentRole),
		YearsExperience:      in.YearsExperience,
		CurrentSkills:        normalization.SortedCopy(in.CurrentSkills),
		TargetGoal:           in.TargetGoal,
		WeeklyHours:          in.WeeklyHours,
		CommuteMinutesPerDay: in.CommuteMinutesPerDay,
		PreferredStudyTime:   in.PreferredStudyTime,
		LowEnergyAfter:       in.LowEnergyAfter,
		WeekendAvailability:  in.WeekendAvailability,
	}
	raw, _ := json.Marshal(doc)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
