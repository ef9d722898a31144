package app

import (
	"context"

	"grading_overview_bot/internal/domain/activity"
	"grading_overview_bot/internal/domain/grading"
	"grading_overview_bot/internal/domain/learner"
)

// candidate is a pair waiting for classification. learner is nil when it was
// not loaded during resolution.
type candidate struct {
	pair    grading.Pair
	learner *learner.Learner
}

// resolution is the outcome of identity resolution. When paged is true the
// candidates are already one page and total is the unpaginated learner count.
type resolution struct {
	candidates []candidate
	paged      bool
	total      int
}

// identityResolver discovers the learner/lesson pairs of a request.
type identityResolver interface {
	// resolve returns the candidates for the row listing, search applied.
	resolve(ctx context.Context, c grading.FilterCriteria) resolution
	// workingSet returns the pairs the summary counts cover, search and paging not applied.
	workingSet(ctx context.Context) []grading.Pair
}

// pinnedLessonResolver lists the learners who started one lesson. Search, role
// and paging are delegated to the learner query.
type pinnedLessonResolver struct {
	run      *gradingRun
	lessonID int64

	starters []int64
	loaded   bool
}

func (p *pinnedLessonResolver) starterIDs(ctx context.Context) []int64 {
	if !p.loaded {
		p.starters = p.run.activityIDs(ctx, activity.Query{Kind: activity.KindLessonStart, PostID: p.lessonID}, activity.FieldUserID)
		p.loaded = true
	}
	return p.starters
}

func (p *pinnedLessonResolver) resolve(ctx context.Context, c grading.FilterCriteria) resolution {
	p.run.quizID(ctx, p.lessonID)

	userIDs := p.starterIDs(ctx)
	if len(userIDs) == 0 {
		return resolution{paged: true}
	}

	page, err := p.run.s.learners.Query(ctx, learner.Query{
		Count:      c.PerPage,
		IncludeIDs: userIDs,
		Offset:     c.Offset(),
		Role:       c.Role,
		Search:     c.Search,
		Fields:     learner.FieldsAll,
	})
	if err != nil {
		p.run.log.WithError(err).WithField("include_ids", len(userIDs)).Warn("Learner query failed, treating as empty")
		return resolution{paged: true}
	}

	res := resolution{paged: true, total: page.Total}
	for _, l := range page.Learners {
		if l == nil {
			continue
		}
		p.run.learners[l.ID] = l
		res.candidates = append(res.candidates, candidate{
			pair:    grading.Pair{UserID: l.ID, LessonID: p.lessonID},
			learner: l,
		})
	}
	return res
}

func (p *pinnedLessonResolver) workingSet(ctx context.Context) []grading.Pair {
	userIDs := p.starterIDs(ctx)
	pairs := make([]grading.Pair, 0, len(userIDs))
	for _, id := range userIDs {
		pairs = append(pairs, grading.Pair{UserID: id, LessonID: p.lessonID})
	}
	return pairs
}

// allLessonsResolver walks every started lesson and takes the first learner
// returned for it. Only one learner per lesson is surfaced in this mode.
type allLessonsResolver struct {
	run *gradingRun

	discovered []grading.Pair
	loaded     bool
}

func (a *allLessonsResolver) pairs(ctx context.Context) []grading.Pair {
	if a.loaded {
		return a.discovered
	}
	lessonIDs := a.run.activityIDs(ctx, activity.Query{Kind: activity.KindLessonStart}, activity.FieldPostID)
	pairs := make([]grading.Pair, 0, len(lessonIDs))
	for _, lessonID := range lessonIDs {
		userIDs := a.run.activityIDs(ctx, activity.Query{Kind: activity.KindLessonStart, PostID: lessonID}, activity.FieldUserID)
		if len(userIDs) == 0 {
			continue
		}
		pairs = append(pairs, grading.Pair{UserID: userIDs[0], LessonID: lessonID})
	}
	a.discovered, a.loaded = pairs, true
	return pairs
}

func (a *allLessonsResolver) resolve(ctx context.Context, c grading.FilterCriteria) resolution {
	var res resolution
	for _, p := range a.pairs(ctx) {
		l := a.run.learner(ctx, p.UserID)
		if !grading.MatchesSearch(l, c.Search) {
			continue
		}
		res.candidates = append(res.candidates, candidate{pair: p, learner: l})
	}
	return res
}

func (a *allLessonsResolver) workingSet(ctx context.Context) []grading.Pair {
	return a.pairs(ctx)
}
