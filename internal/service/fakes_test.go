package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-results-api/internal/models"
)

// memStore is an in-memory stand-in for the results schema shared by the fake repositories.
type memStore struct {
	mu            sync.Mutex
	seq           int
	results       map[string]models.Result
	courseResults map[string]models.CourseResult
	classCourses  map[string]models.ClassCourse
	courses       map[string]models.Course
	students      map[string]models.Student
	sizes         map[models.Cohort]int
	logs          []models.ResultChangeLog
	locked        []string
	positionWrite int
	commits       int
	rollbacks     int
	reportPaths   map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		results:       map[string]models.Result{},
		courseResults: map[string]models.CourseResult{},
		classCourses:  map[string]models.ClassCourse{},
		courses:       map[string]models.Course{},
		students:      map[string]models.Student{},
		sizes:         map[models.Cohort]int{},
		reportPaths:   map[string]string{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) addStudent(id, first, last, className string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	class := className
	m.students[id] = models.Student{ID: id, FirstName: first, LastName: last, Email: id + "@example.com", ClassName: &class}
}

func (m *memStore) addClassCourse(id, courseName, className string, term models.Term) {
	m.mu.Lock()
	defer m.mu.Unlock()
	courseID := "course-" + courseName
	m.courses[courseID] = models.Course{ID: courseID, Name: courseName, Code: courseName[:3]}
	m.classCourses[id] = models.ClassCourse{ID: id, CourseID: courseID, ClassName: className, Term: term, IsActive: true, CourseName: courseName}
}

func (m *memStore) addResult(r models.Result, scores map[string][2]float64) models.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = m.nextID("res")
	}
	if r.Status == "" {
		r.Status = models.ResultStatusDraft
	}
	m.results[r.ID] = r
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, ccID := range keys {
		s := scores[ccID]
		id := m.nextID("cr")
		m.courseResults[id] = models.CourseResult{ID: id, ResultID: r.ID, ClassCourseID: ccID, ClassScore: s[0], ExamScore: s[1]}
	}
	return r
}

func (m *memStore) result(id string) models.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[id]
}

func (m *memStore) logCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

type memSnapshot struct {
	results       map[string]models.Result
	courseResults map[string]models.CourseResult
	sizes         map[models.Cohort]int
	logs          []models.ResultChangeLog
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := memSnapshot{results: map[string]models.Result{}, courseResults: map[string]models.CourseResult{}, sizes: map[models.Cohort]int{}}
	for k, v := range m.results {
		snap.results[k] = v
	}
	for k, v := range m.courseResults {
		snap.courseResults[k] = v
	}
	for k, v := range m.sizes {
		snap.sizes[k] = v
	}
	snap.logs = append([]models.ResultChangeLog(nil), m.logs...)
	return snap
}

func (m *memStore) restore(snap memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = snap.results
	m.courseResults = snap.courseResults
	m.sizes = snap.sizes
	m.logs = snap.logs
}

func (m *memStore) decorateResult(r models.Result) models.Result {
	if s, ok := m.students[r.StudentID]; ok {
		r.StudentName = s.FullName()
		r.StudentEmail = s.Email
	}
	return r
}

func (m *memStore) decorateCourseResult(cr models.CourseResult) models.CourseResult {
	if cc, ok := m.classCourses[cr.ClassCourseID]; ok {
		cr.CourseID = cc.CourseID
		cr.CourseName = cc.CourseName
		cr.CourseCode = m.courses[cc.CourseID].Code
	}
	return cr
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// fakeTx commits by keeping changes and rolls back by restoring the snapshot.
type fakeTx struct {
	store *memStore
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	snap := f.store.snapshot()
	if err := fn(nil); err != nil {
		f.store.restore(snap)
		f.store.mu.Lock()
		f.store.rollbacks++
		f.store.mu.Unlock()
		return err
	}
	f.store.mu.Lock()
	f.store.commits++
	f.store.mu.Unlock()
	return nil
}

type fakeResultRepo struct {
	store      *memStore
	publishErr error
}

func (f *fakeResultRepo) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Result
	for _, r := range m.results {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassName != "" && r.ClassName != filter.ClassName {
			continue
		}
		if filter.Term != "" && r.Term != filter.Term {
			continue
		}
		if filter.AcademicYear != "" && r.AcademicYear != filter.AcademicYear {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.EnrolledOnly {
			s, ok := m.students[r.StudentID]
			if !ok || s.CurrentClass() != r.ClassName {
				continue
			}
		}
		if filter.ExcludeClass != "" && r.ClassName == filter.ExcludeClass {
			continue
		}
		out = append(out, m.decorateResult(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	r = m.decorateResult(r)
	r.OverallPosition = copyInt(r.OverallPosition)
	return &r, nil
}

func (f *fakeResultRepo) FindForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Result, error) {
	return f.FindByID(ctx, exec, id)
}

func (f *fakeResultRepo) ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.Result, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Result
	for _, r := range m.results {
		if r.Cohort() == cohort {
			r.OverallPosition = copyInt(r.OverallPosition)
			out = append(out, m.decorateResult(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeResultRepo) LatestAcademicYear(ctx context.Context, className string, term models.Term) (string, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := ""
	for _, r := range m.results {
		if r.ClassName == className && r.Term == term && r.AcademicYear > latest {
			latest = r.AcademicYear
		}
	}
	if latest == "" {
		return "", sql.ErrNoRows
	}
	return latest, nil
}

func (f *fakeResultRepo) LockCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.locked = append(f.store.locked, cohort.String())
	return nil
}

func (f *fakeResultRepo) duplicate(r *models.Result) bool {
	for _, existing := range f.store.results {
		if existing.ID != r.ID && existing.StudentID == r.StudentID && existing.Cohort() == r.Cohort() {
			return true
		}
	}
	return false
}

func (f *fakeResultRepo) Create(ctx context.Context, exec sqlx.ExtContext, r *models.Result) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.duplicate(r) {
		return &pq.Error{Code: "23505", Constraint: "results_student_cohort_key"}
	}
	if r.ID == "" {
		r.ID = m.nextID("res")
	}
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	m.results[r.ID] = *r
	return nil
}

func (f *fakeResultRepo) Update(ctx context.Context, exec sqlx.ExtContext, r *models.Result) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.results[r.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if f.duplicate(r) {
		return &pq.Error{Code: "23505", Constraint: "results_student_cohort_key"}
	}
	updated := *r
	updated.OverallPosition = existing.OverallPosition
	updated.ReportCardPath = existing.ReportCardPath
	updated.UpdatedAt = time.Now().UTC()
	m.results[r.ID] = updated
	return nil
}

func (f *fakeResultRepo) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.ResultStatus, scheduled, published *time.Time) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	r.ScheduledDate = scheduled
	r.PublishedDate = published
	m.results[id] = r
	return nil
}

func (f *fakeResultRepo) UpdatePosition(ctx context.Context, exec sqlx.ExtContext, id string, position *int) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.results[id]
	r.OverallPosition = copyInt(position)
	m.results[id] = r
	m.positionWrite++
	return nil
}

func (f *fakeResultRepo) SetReportCard(ctx context.Context, id, path string) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.ReportCardPath = &path
	m.results[id] = r
	m.reportPaths[id] = path
	return nil
}

func (f *fakeResultRepo) PublishDue(ctx context.Context, now time.Time) ([]string, error) {
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, r := range m.results {
		if r.Status != models.ResultStatusScheduled || r.ScheduledDate == nil || r.ScheduledDate.After(now) {
			continue
		}
		r.Status = models.ResultStatusPublished
		if r.PublishedDate == nil {
			published := now
			r.PublishedDate = &published
		}
		m.results[id] = r
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeResultRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.results[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.results, id)
	for crID, cr := range m.courseResults {
		if cr.ResultID == id {
			delete(m.courseResults, crID)
		}
	}
	return nil
}

type fakeCourseResultRepo struct {
	store *memStore
}

func (f *fakeCourseResultRepo) collect(match func(models.CourseResult) bool) []models.CourseResult {
	m := f.store
	var out []models.CourseResult
	for _, cr := range m.courseResults {
		if match(cr) {
			cr.Position = copyInt(cr.Position)
			out = append(out, m.decorateCourseResult(cr))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CourseName != out[j].CourseName {
			return out[i].CourseName < out[j].CourseName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeCourseResultRepo) ListByResult(ctx context.Context, exec sqlx.ExtContext, resultID string) ([]models.CourseResult, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.collect(func(cr models.CourseResult) bool { return cr.ResultID == resultID }), nil
}

func (f *fakeCourseResultRepo) ListByResults(ctx context.Context, exec sqlx.ExtContext, ids []string) ([]models.CourseResult, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return f.collect(func(cr models.CourseResult) bool { return set[cr.ResultID] }), nil
}

func (f *fakeCourseResultRepo) ListByCohort(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) ([]models.CourseResult, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.collect(func(cr models.CourseResult) bool {
		r, ok := f.store.results[cr.ResultID]
		return ok && r.Cohort() == cohort
	}), nil
}

func (f *fakeCourseResultRepo) Create(ctx context.Context, exec sqlx.ExtContext, item *models.CourseResult) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cr := range m.courseResults {
		if cr.ResultID == item.ResultID && cr.ClassCourseID == item.ClassCourseID {
			return &pq.Error{Code: "23505", Constraint: "course_results_result_class_course_key"}
		}
	}
	if item.ID == "" {
		item.ID = m.nextID("cr")
	}
	m.courseResults[item.ID] = *item
	return nil
}

func (f *fakeCourseResultRepo) Update(ctx context.Context, exec sqlx.ExtContext, item *models.CourseResult) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.courseResults[item.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.ClassScore = item.ClassScore
	existing.ExamScore = item.ExamScore
	existing.Remarks = item.Remarks
	m.courseResults[item.ID] = existing
	return nil
}

func (f *fakeCourseResultRepo) UpdatePosition(ctx context.Context, exec sqlx.ExtContext, id string, position *int) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	cr := m.courseResults[id]
	cr.Position = copyInt(position)
	m.courseResults[id] = cr
	m.positionWrite++
	return nil
}

func (f *fakeCourseResultRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courseResults[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courseResults, id)
	return nil
}

type fakeCohortSizeRepo struct {
	store *memStore
}

func (f *fakeCohortSizeRepo) Refresh(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.results {
		if r.Cohort() == cohort {
			count++
		}
	}
	m.sizes[cohort] = count
	return count, nil
}

func (f *fakeCohortSizeRepo) Get(ctx context.Context, exec sqlx.ExtContext, cohort models.Cohort) (int, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	count, ok := m.sizes[cohort]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return count, nil
}

type fakeChangeLogRepo struct {
	store *memStore
}

func (f *fakeChangeLogRepo) Create(ctx context.Context, exec sqlx.ExtContext, entry *models.ResultChangeLog) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = m.nextID("log")
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	m.logs = append(m.logs, *entry)
	return nil
}

func (f *fakeChangeLogRepo) ListByResult(ctx context.Context, resultID string) ([]models.ResultChangeLog, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ResultChangeLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].ResultID == resultID {
			out = append(out, m.logs[i])
		}
	}
	return out, nil
}

type fakeStudentRepo struct {
	store *memStore
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStudentRepo) ListByClass(ctx context.Context, className string) ([]models.Student, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, s := range m.students {
		if s.CurrentClass() == className {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeClassCourseRepo struct {
	store *memStore
}

func (f *fakeClassCourseRepo) List(ctx context.Context, filter models.ClassCourseFilter) ([]models.ClassCourse, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ClassCourse
	for _, cc := range m.classCourses {
		if filter.ClassName != "" && cc.ClassName != filter.ClassName {
			continue
		}
		if filter.Term != "" && cc.Term != filter.Term {
			continue
		}
		if filter.Active != nil && cc.IsActive != *filter.Active {
			continue
		}
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClassCourseRepo) ListActive(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error) {
	active := true
	return f.List(ctx, models.ClassCourseFilter{ClassName: className, Term: term, Active: &active})
}

func (f *fakeClassCourseRepo) FindByID(ctx context.Context, id string) (*models.ClassCourse, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	cc, ok := m.classCourses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &cc, nil
}

func (f *fakeClassCourseRepo) FindByIDs(ctx context.Context, ids []string) ([]models.ClassCourse, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ClassCourse
	for _, id := range ids {
		if cc, ok := m.classCourses[id]; ok {
			out = append(out, cc)
		}
	}
	return out, nil
}

func (f *fakeClassCourseRepo) Exists(ctx context.Context, courseID, className string, term models.Term) (bool, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cc := range m.classCourses {
		if cc.CourseID == courseID && cc.ClassName == className && cc.Term == term {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassCourseRepo) InUse(ctx context.Context, id string) (bool, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cr := range m.courseResults {
		if cr.ClassCourseID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassCourseRepo) Create(ctx context.Context, item *models.ClassCourse) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cc := range m.classCourses {
		if cc.CourseID == item.CourseID && cc.ClassName == item.ClassName && cc.Term == item.Term {
			return &pq.Error{Code: "23505", Constraint: "class_courses_course_class_term_key"}
		}
	}
	if item.ID == "" {
		item.ID = m.nextID("cc")
	}
	item.CourseName = m.courses[item.CourseID].Name
	m.classCourses[item.ID] = *item
	return nil
}

func (f *fakeClassCourseRepo) Update(ctx context.Context, item *models.ClassCourse) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.classCourses[item.ID]; !ok {
		return sql.ErrNoRows
	}
	m.classCourses[item.ID] = *item
	return nil
}

func (f *fakeClassCourseRepo) Delete(ctx context.Context, id string) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.classCourses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.classCourses, id)
	return nil
}

type fakeCourseRepo struct {
	store *memStore
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.Name == course.Name || c.Code == course.Code {
			return &pq.Error{Code: "23505", Constraint: "courses_code_key"}
		}
	}
	if course.ID == "" {
		course.ID = m.nextID("course")
	}
	m.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	m.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

// fakeNotifier records publication notices.
type fakeNotifier struct {
	mu        sync.Mutex
	published []string
}

func (f *fakeNotifier) ResultPublished(ctx context.Context, result models.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, result.ID)
}

func (f *fakeNotifier) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.published...)
}

// fakeArtifacts records regeneration requests.
type fakeArtifacts struct {
	mu      sync.Mutex
	results []string
	cohorts []models.Cohort
	files   map[string][]byte
}

func (f *fakeArtifacts) Regenerate(ctx context.Context, resultID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, resultID)
	return true
}

func (f *fakeArtifacts) RegenerateMany(ctx context.Context, ids []string) int {
	for _, id := range ids {
		f.Regenerate(ctx, id)
	}
	return 0
}

func (f *fakeArtifacts) RegenerateCohort(ctx context.Context, cohort models.Cohort) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cohorts = append(f.cohorts, cohort)
	return 0
}

func (f *fakeArtifacts) Load(ctx context.Context, relPath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[relPath]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return data, nil
}

// fakeRankingCache records invalidated cohorts.
type fakeRankingCache struct {
	mu          sync.Mutex
	invalidated []models.Cohort
}

func (f *fakeRankingCache) InvalidateCohorts(ctx context.Context, cohorts ...models.Cohort) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, cohorts...)
}
