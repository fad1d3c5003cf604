package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jwalitptl/care-sync/pkg/fitness"
)

// Profile is the union of the per-role attribute bags. Fields that do not
// apply to a role stay empty.
type Profile struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Avatar      string    `json:"avatar"`

	BloodGroup        string   `json:"bloodGroup"`
	Allergies         []string `json:"allergies"`
	ChronicConditions []string `json:"chronicConditions"`
	Medications       []string `json:"medications"`

	Specialization  string `json:"specialization"`
	LicenseNumber   string `json:"licenseNumber"`
	ExperienceYears int    `json:"experienceYears"`
	Qualification   string `json:"qualification"`

	Limit fitness.Limit `json:"limit"`
}

type ProfileWire struct {
	ID                string         `json:"id"`
	Role              string         `json:"role"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Phone             *string        `json:"phone"`
	Address           *string        `json:"address"`
	Gender            *string        `json:"gender"`
	DateOfBirth       *string        `json:"date_of_birth"`
	Avatar            *string        `json:"avatar"`
	BloodGroup        *string        `json:"blood_group"`
	Allergies         []string       `json:"allergies"`
	ChronicConditions []string       `json:"chronic_conditions"`
	Medications       []string       `json:"medications"`
	Specialization    *string        `json:"specialization"`
	LicenseNumber     *string        `json:"license_number"`
	ExperienceYears   *int           `json:"experience_years"`
	Qualification     *string        `json:"qualification"`
	Limit             *fitness.Limit `json:"limit"`
}

func profileFromWire(w ProfileWire) Profile {
	p := Profile{
		ID:                w.ID,
		Role:              Role(w.Role),
		Name:              w.Name,
		Email:             w.Email,
		Phone:             str(w.Phone),
		Address:           str(w.Address),
		Gender:            str(w.Gender),
		DateOfBirth:       parseDate(str(w.DateOfBirth)),
		Avatar:            str(w.Avatar),
		BloodGroup:        str(w.BloodGroup),
		Allergies:         w.Allergies,
		ChronicConditions: w.ChronicConditions,
		Medications:       w.Medications,
		Specialization:    str(w.Specialization),
		LicenseNumber:     str(w.LicenseNumber),
		Qualification:     str(w.Qualification),
	}
	if w.ExperienceYears != nil {
		p.ExperienceYears = *w.ExperienceYears
	}
	if w.Limit != nil {
		p.Limit = *w.Limit
	}
	return p
}

// ProfilePatch lists the editable attributes; nil means unchanged.
type ProfilePatch struct {
	Name              *string
	Phone             *string
	Address           *string
	Gender            *string
	DateOfBirth       *time.Time
	Avatar            *string
	BloodGroup        *string
	Allergies         []string
	ChronicConditions []string
	Medications       []string
	Specialization    *string
	LicenseNumber     *string
	ExperienceYears   *int
	Qualification     *string
	Limit             *fitness.Limit
}

func (p ProfilePatch) apply(pr *Profile) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Phone != nil {
		pr.Phone = *p.Phone
	}
	if p.Address != nil {
		pr.Address = *p.Address
	}
	if p.Gender != nil {
		pr.Gender = *p.Gender
	}
	if p.DateOfBirth != nil {
		pr.DateOfBirth = *p.DateOfBirth
	}
	if p.Avatar != nil {
		pr.Avatar = *p.Avatar
	}
	if p.BloodGroup != nil {
		pr.BloodGroup = *p.BloodGroup
	}
	if p.Allergies != nil {
		pr.Allergies = p.Allergies
	}
	if p.ChronicConditions != nil {
		pr.ChronicConditions = p.ChronicConditions
	}
	if p.Medications != nil {
		pr.Medications = p.Medications
	}
	if p.Specialization != nil {
		pr.Specialization = *p.Specialization
	}
	if p.LicenseNumber != nil {
		pr.LicenseNumber = *p.LicenseNumber
	}
	if p.ExperienceYears != nil {
		pr.ExperienceYears = *p.ExperienceYears
	}
	if p.Qualification != nil {
		pr.Qualification = *p.Qualification
	}
	if p.Limit != nil {
		pr.Limit = *p.Limit
	}
}

func profilePatchToWire(p ProfilePatch) map[string]interface{} {
	out := map[string]interface{}{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("name", p.Name)
	set("phone", p.Phone)
	set("address", p.Address)
	set("gender", p.Gender)
	set("avatar", p.Avatar)
	set("blood_group", p.BloodGroup)
	set("specialization", p.Specialization)
	set("license_number", p.LicenseNumber)
	set("qualification", p.Qualification)
	if p.DateOfBirth != nil {
		out["date_of_birth"] = formatDate(*p.DateOfBirth)
	}
	if p.Allergies != nil {
		out["allergies"] = p.Allergies
	}
	if p.ChronicConditions != nil {
		out["chronic_conditions"] = p.ChronicConditions
	}
	if p.Medications != nil {
		out["medications"] = p.Medications
	}
	if p.ExperienceYears != nil {
		out["experience_years"] = *p.ExperienceYears
	}
	if p.Limit != nil {
		out["limit"] = *p.Limit
	}
	return out
}

// ProfileStore holds the signed-in user's profile.
type ProfileStore struct {
	base

	mu      sync.RWMutex
	profile Profile
	loaded  bool
}

func NewProfileStore(t Transport, opts Options) *ProfileStore {
	return &ProfileStore{base: newBase("profile", t, opts)}
}

func (s *ProfileStore) Fetch(ctx context.Context, id string) error {
	var row ProfileWire
	if err := s.t.Get(ctx, "/profiles/"+escape(id), nil, &row); err != nil {
		s.log.Error(err, "failed to fetch profile", "profile_id", id)
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	s.Set(profileFromWire(row))
	return nil
}

func (s *ProfileStore) UpdateBackend(ctx context.Context, id string, patch ProfilePatch) (Profile, error) {
	s.mu.Lock()
	prev, cached := s.profile, s.loaded && s.profile.ID == id
	if cached {
		patch.apply(&s.profile)
	}
	s.mu.Unlock()

	var row ProfileWire
	if err := s.t.Patch(ctx, "/profiles/"+escape(id), profilePatchToWire(patch), &row); err != nil {
		if cached {
			s.Set(prev)
			s.rolledBack(err, "profile update rolled back", "profile_id", id)
		} else {
			s.log.Error(err, "failed to update profile", "profile_id", id)
		}
		return Profile{}, fmt.Errorf("failed to update profile %s: %w", id, err)
	}

	updated := profileFromWire(row)
	s.Set(updated)
	return updated, nil
}

// Profile returns the cached profile and whether one has been loaded.
func (s *ProfileStore) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.loaded
}

func (s *ProfileStore) Set(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.loaded = true
}

func (s *ProfileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = Profile{}
	s.loaded = false
}
