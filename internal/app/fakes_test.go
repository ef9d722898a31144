package app

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"grading_overview_bot/internal/domain/activity"
	"grading_overview_bot/internal/domain/catalog"
	"grading_overview_bot/internal/domain/grading"
	"grading_overview_bot/internal/domain/learner"

	"github.com/sirupsen/logrus"
)

var errStoreDown = errors.New("store unavailable")

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func day(d int) time.Time {
	return time.Date(2020, time.January, d, 0, 0, 0, 0, time.UTC)
}

type fakeActivityStore struct {
	records []activity.Record
	fail    bool
	idCalls int
}

func (s *fakeActivityStore) matches(r activity.Record, q activity.Query) bool {
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.PostID != 0 && r.SubjectID != q.PostID {
		return false
	}
	if q.UserID != 0 && r.UserID != q.UserID {
		return false
	}
	return true
}

func (s *fakeActivityStore) ActivityIDs(_ context.Context, q activity.Query, field activity.IDField) ([]int64, error) {
	s.idCalls++
	if s.fail {
		return nil, errStoreDown
	}
	latest := make(map[int64]time.Time)
	for _, r := range s.records {
		if !s.matches(r, q) {
			continue
		}
		id := r.UserID
		if field == activity.FieldPostID {
			id = r.SubjectID
		}
		if r.Timestamp.After(latest[id]) {
			latest[id] = r.Timestamp
		}
	}
	ids := make([]int64, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if !latest[ids[i]].Equal(latest[ids[j]]) {
			return latest[ids[i]].After(latest[ids[j]])
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

func (s *fakeActivityStore) Activity(_ context.Context, q activity.Query) (*activity.Record, error) {
	if s.fail {
		return nil, errStoreDown
	}
	var found *activity.Record
	for i := range s.records {
		r := s.records[i]
		if !s.matches(r, q) {
			continue
		}
		if found == nil || r.Timestamp.After(found.Timestamp) {
			found = &r
		}
	}
	if found == nil {
		return nil, activity.ErrActivityNotFound
	}
	return found, nil
}

type fakeLearnerRepo struct {
	learners  map[int64]*learner.Learner
	fail      bool
	lastQuery *learner.Query
}

func (r *fakeLearnerRepo) Query(_ context.Context, q learner.Query) (*learner.Page, error) {
	r.lastQuery = &q
	if r.fail {
		return nil, errStoreDown
	}
	var matched []*learner.Learner
	for _, id := range q.IncludeIDs {
		l, ok := r.learners[id]
		if !ok {
			continue
		}
		if q.Role != "" && l.Role != q.Role {
			continue
		}
		if !grading.MatchesSearch(l, q.Search) {
			continue
		}
		matched = append(matched, l)
	}
	page := &learner.Page{Total: len(matched)}
	if q.Offset < len(matched) {
		end := len(matched)
		if q.Count > 0 && q.Offset+q.Count < end {
			end = q.Offset + q.Count
		}
		page.Learners = matched[q.Offset:end]
	}
	return page, nil
}

func (r *fakeLearnerRepo) GetByID(_ context.Context, id int64) (*learner.Learner, error) {
	if r.fail {
		return nil, errStoreDown
	}
	l, ok := r.learners[id]
	if !ok {
		return nil, learner.ErrLearnerNotFound
	}
	return l, nil
}

type fakeLesson struct {
	courseID int64
	quizID   int64
}

type fakeCatalog struct {
	lessons map[int64]fakeLesson
	titles  map[int64]string
	courses []catalog.Post
	fail    bool
}

func (c *fakeCatalog) Title(_ context.Context, postID int64) (string, error) {
	if c.fail {
		return "", errStoreDown
	}
	t, ok := c.titles[postID]
	if !ok {
		return "", catalog.ErrPostNotFound
	}
	return t, nil
}

func (c *fakeCatalog) LessonCourseID(_ context.Context, lessonID int64) (int64, error) {
	if c.fail {
		return 0, errStoreDown
	}
	l, ok := c.lessons[lessonID]
	if !ok {
		return 0, catalog.ErrPostNotFound
	}
	return l.courseID, nil
}

func (c *fakeCatalog) LessonQuizID(_ context.Context, lessonID int64) (int64, error) {
	if c.fail {
		return 0, errStoreDown
	}
	return c.lessons[lessonID].quizID, nil
}

func (c *fakeCatalog) ListCourses(context.Context) ([]catalog.Post, error) {
	if c.fail {
		return nil, errStoreDown
	}
	return c.courses, nil
}

func (c *fakeCatalog) ListLessons(_ context.Context, courseID int64) ([]catalog.Post, error) {
	if c.fail {
		return nil, errStoreDown
	}
	var out []catalog.Post
	for id, l := range c.lessons {
		if l.courseID == courseID {
			out = append(out, catalog.Post{ID: id, Type: catalog.PostTypeLesson, Title: c.titles[id], ParentID: courseID})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// fixture assembles fake collaborators for one test.
type fixture struct {
	acts     *fakeActivityStore
	learners *fakeLearnerRepo
	cat      *fakeCatalog
}

func newFixture() *fixture {
	return &fixture{
		acts:     &fakeActivityStore{},
		learners: &fakeLearnerRepo{learners: make(map[int64]*learner.Learner)},
		cat: &fakeCatalog{
			lessons: make(map[int64]fakeLesson),
			titles:  make(map[int64]string),
		},
	}
}

func (f *fixture) course(id int64, title string) {
	f.cat.titles[id] = title
	f.cat.courses = append(f.cat.courses, catalog.Post{ID: id, Type: catalog.PostTypeCourse, Title: title})
}

func (f *fixture) lesson(id, courseID, quizID int64, title string) {
	f.cat.lessons[id] = fakeLesson{courseID: courseID, quizID: quizID}
	f.cat.titles[id] = title
}

func (f *fixture) learner(id int64, login, name, email string) {
	f.learners.learners[id] = &learner.Learner{ID: id, Login: login, DisplayName: name, Email: email, Role: "student"}
}

func (f *fixture) record(kind activity.Kind, postID, userID int64, at time.Time, value string) {
	f.acts.records = append(f.acts.records, activity.Record{
		ID:        int64(len(f.acts.records) + 1),
		SubjectID: postID,
		UserID:    userID,
		Kind:      kind,
		Timestamp: at,
		Value:     value,
	})
}

func (f *fixture) start(lessonID, userID int64, at time.Time) {
	f.record(activity.KindLessonStart, lessonID, userID, at, "")
}

func (f *fixture) end(lessonID, userID int64, at time.Time) {
	f.record(activity.KindLessonEnd, lessonID, userID, at, "")
}

func (f *fixture) grade(quizID, userID int64, value string, at time.Time) {
	f.record(activity.KindQuizGrade, quizID, userID, at, value)
}

func (f *fixture) service(opts ...Option) *GradingService {
	return NewGradingService(f.acts, f.learners, f.cat, testLogger(), opts...)
}
