package store

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

type DietPlan struct {
	ID             string    `json:"id"`
	DailyCalories  float64   `json:"dailyCalories"`
	Protein        float64   `json:"protein"`
	Carbs          float64   `json:"carbs"`
	Fat            float64   `json:"fat"`
	Deficiency     string    `json:"deficiency"`
	Notes          string    `json:"notes"`
	Exercise       string    `json:"exercise"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	PatientID      string    `json:"patientId"`
	PatientName    string    `json:"patientName"`
	NutritionistID string    `json:"nutritionistId"`
}

// IsActive reports whether the plan runs past now. There is no status
// field; a plan whose end date has passed is completed.
func (p DietPlan) IsActive(now time.Time) bool {
	return p.EndDate.After(now)
}

// DietPlanWire is the snake_case payload of the diet-plan endpoints.
// Pointer fields are nullable on the wire.
type DietPlanWire struct {
	ID             string   `json:"id,omitempty"`
	DailyCalories  *float64 `json:"daily_calories"`
	Protein        *float64 `json:"protein"`
	Carbs          *float64 `json:"carbs"`
	Fat            *float64 `json:"fat"`
	Deficiency     *string  `json:"deficiency"`
	Notes          *string  `json:"notes"`
	Exercise       *string  `json:"exercise"`
	CaloriesBurned *float64 `json:"calories_burned"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	PatientID      string   `json:"patient_id"`
	PatientName    *string  `json:"patient_name"`
	NutritionistID string   `json:"nutritionist_id"`
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dietPlanFromWire(w DietPlanWire) DietPlan {
	return DietPlan{
		ID:             w.ID,
		DailyCalories:  num(w.DailyCalories),
		Protein:        num(w.Protein),
		Carbs:          num(w.Carbs),
		Fat:            num(w.Fat),
		Deficiency:     str(w.Deficiency),
		Notes:          str(w.Notes),
		Exercise:       str(w.Exercise),
		CaloriesBurned: num(w.CaloriesBurned),
		StartDate:      parseDate(w.StartDate),
		EndDate:        parseDate(w.EndDate),
		PatientID:      w.PatientID,
		PatientName:    str(w.PatientName),
		NutritionistID: w.NutritionistID,
	}
}

func dietPlanToWire(p DietPlan) DietPlanWire {
	return DietPlanWire{
		ID:             p.ID,
		DailyCalories:  &p.DailyCalories,
		Protein:        &p.Protein,
		Carbs:          &p.Carbs,
		Fat:            &p.Fat,
		Deficiency:     &p.Deficiency,
		Notes:          &p.Notes,
		Exercise:       &p.Exercise,
		CaloriesBurned: &p.CaloriesBurned,
		StartDate:      formatDate(p.StartDate),
		EndDate:        formatDate(p.EndDate),
		PatientID:      p.PatientID,
		PatientName:    &p.PatientName,
		NutritionistID: p.NutritionistID,
	}
}

// DietPlanPatch lists the editable fields; nil means unchanged.
type DietPlanPatch struct {
	DailyCalories  *float64
	Protein        *float64
	Carbs          *float64
	Fat            *float64
	Deficiency     *string
	Notes          *string
	Exercise       *string
	CaloriesBurned *float64
	StartDate      *time.Time
	EndDate        *time.Time
}

func (p DietPlanPatch) apply(d *DietPlan) {
	if p.DailyCalories != nil {
		d.DailyCalories = *p.DailyCalories
	}
	if p.Protein != nil {
		d.Protein = *p.Protein
	}
	if p.Carbs != nil {
		d.Carbs = *p.Carbs
	}
	if p.Fat != nil {
		d.Fat = *p.Fat
	}
	if p.Deficiency != nil {
		d.Deficiency = *p.Deficiency
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.Exercise != nil {
		d.Exercise = *p.Exercise
	}
	if p.CaloriesBurned != nil {
		d.CaloriesBurned = *p.CaloriesBurned
	}
	if p.StartDate != nil {
		d.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = *p.EndDate
	}
}

func dietPlanPatchToWire(p DietPlanPatch) map[string]interface{} {
	out := map[string]interface{}{}
	if p.DailyCalories != nil {
		out["daily_calories"] = *p.DailyCalories
	}
	if p.Protein != nil {
		out["protein"] = *p.Protein
	}
	if p.Carbs != nil {
		out["carbs"] = *p.Carbs
	}
	if p.Fat != nil {
		out["fat"] = *p.Fat
	}
	if p.Deficiency != nil {
		out["deficiency"] = *p.Deficiency
	}
	if p.Notes != nil {
		out["notes"] = *p.Notes
	}
	if p.Exercise != nil {
		out["exercise"] = *p.Exercise
	}
	if p.CaloriesBurned != nil {
		out["calories_burned"] = *p.CaloriesBurned
	}
	if p.StartDate != nil {
		out["start_date"] = formatDate(*p.StartDate)
	}
	if p.EndDate != nil {
		out["end_date"] = formatDate(*p.EndDate)
	}
	return out
}

type DietPlanStats struct {
	Total            int     `json:"total"`
	Active           int     `json:"active"`
	Completed        int     `json:"completed"`
	AvgDailyCalories float64 `json:"avgDailyCalories"`
}

// DietPlanStore caches the plans assigned by a nutritionist or the plans
// of a single patient.
type DietPlanStore struct {
	base
	items *collection[DietPlan]

	srcMu  sync.Mutex
	source dietPlanSource
}

// dietPlanSource is the listing the collection was last loaded from.
type dietPlanSource struct {
	path  string
	query url.Values
}

func NewDietPlanStore(t Transport, opts Options) *DietPlanStore {
	return &DietPlanStore{
		base:  newBase("diet_plans", t, opts),
		items: newCollection(func(p DietPlan) string { return p.ID }),
	}
}

// Fetch loads every plan assigned by nutritionistID.
func (s *DietPlanStore) Fetch(ctx context.Context, nutritionistID string) error {
	return s.load(ctx, "/diet-plans/assigned", url.Values{"nutritionistId": {nutritionistID}}, nutritionistID)
}

// FetchForPatient loads the plans prescribed to patientID.
func (s *DietPlanStore) FetchForPatient(ctx context.Context, patientID string) error {
	return s.load(ctx, "/diet-plans/patient/"+escape(patientID), nil, patientID)
}

func (s *DietPlanStore) load(ctx context.Context, path string, q url.Values, ownerID string) error {
	var rows []DietPlanWire
	if err := s.t.Get(ctx, path, q, &rows); err != nil {
		s.log.Error(err, "failed to fetch diet plans", "owner_id", ownerID)
		return fmt.Errorf("failed to fetch diet plans: %w", err)
	}
	plans := make([]DietPlan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, dietPlanFromWire(r))
	}
	s.items.replace(plans)

	s.srcMu.Lock()
	s.source = dietPlanSource{path: path, query: q}
	s.srcMu.Unlock()
	return nil
}

// reload repeats the last listing, falling back to the nutritionist view
// when nothing has been loaded yet.
func (s *DietPlanStore) reload(ctx context.Context, ownerID string) error {
	s.srcMu.Lock()
	src := s.source
	s.srcMu.Unlock()

	if src.path == "" {
		return s.Fetch(ctx, ownerID)
	}
	return s.load(ctx, src.path, src.query, ownerID)
}

func (s *DietPlanStore) Create(ctx context.Context, plan DietPlan) (DietPlan, error) {
	body := dietPlanToWire(plan)
	body.ID = ""

	var row DietPlanWire
	if err := s.t.Post(ctx, "/diet-plans", body, &row); err != nil {
		s.log.Error(err, "failed to create diet plan", "patient_id", plan.PatientID)
		return DietPlan{}, fmt.Errorf("failed to create diet plan: %w", err)
	}
	created := dietPlanFromWire(row)
	s.items.upsert(created)
	return created, nil
}

func (s *DietPlanStore) UpdateBackend(ctx context.Context, id string, patch DietPlanPatch, ownerID string) (DietPlan, error) {
	prev, cached := s.items.mutate(id, patch.apply)

	var row DietPlanWire
	if err := s.t.Patch(ctx, "/diet-plans/"+escape(id), dietPlanPatchToWire(patch), &row); err != nil {
		if cached {
			s.items.upsert(prev)
			s.rolledBack(err, "diet plan update rolled back", "diet_plan_id", id)
		} else {
			s.log.Error(err, "failed to update diet plan", "diet_plan_id", id)
		}
		return DietPlan{}, fmt.Errorf("failed to update diet plan %s: %w", id, err)
	}

	updated := dietPlanFromWire(row)
	if !cached {
		if err := s.reload(ctx, ownerID); err != nil {
			s.log.Warn("diet plan updated but reload failed", "diet_plan_id", id)
		}
		return updated, nil
	}
	s.items.upsert(updated)
	return updated, nil
}

func (s *DietPlanStore) Items() []DietPlan { return s.items.all() }

func (s *DietPlanStore) Get(id string) (DietPlan, bool) { return s.items.get(id) }

func (s *DietPlanStore) Set(items []DietPlan) { s.items.replace(items) }

func (s *DietPlanStore) Upsert(p DietPlan) { s.items.upsert(p) }

func (s *DietPlanStore) Remove(id string) { s.items.remove(id) }

func (s *DietPlanStore) Active(now time.Time) []DietPlan {
	return s.items.filter(func(p DietPlan) bool { return p.IsActive(now) })
}

func (s *DietPlanStore) Completed(now time.Time) []DietPlan {
	return s.items.filter(func(p DietPlan) bool { return !p.IsActive(now) })
}

func (s *DietPlanStore) Stats(now time.Time) DietPlanStats {
	items := s.items.all()
	st := DietPlanStats{Total: len(items)}
	var calories float64
	for _, p := range items {
		if p.IsActive(now) {
			st.Active++
		} else {
			st.Completed++
		}
		calories += p.DailyCalories
	}
	if st.Total > 0 {
		st.AvgDailyCalories = calories / float64(st.Total)
	}
	return st
}
