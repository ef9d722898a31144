package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grading_overview_bot/internal/app"
	"grading_overview_bot/internal/domain/grading"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const handlerTimeout = 30 * time.Second

// RegisterGradingHandlers registers the grading overview commands and the
// pagination buttons of overview messages.
func RegisterGradingHandlers(
	ctx context.Context,
	b *telebot.Bot,
	reporter app.GradingReporter,
	catalogService *app.CatalogService,
	access Access,
	baseLogger *logrus.Entry,
) {
	b.Handle("/grading", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/grading",
			"sender_id": c.Sender().ID,
		})
		if !access.Allowed(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMessage)
		}

		criteria := botCriteria(parseArgs(c.Args()), reporter.Defaults())
		reqCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
		defer cancel()

		ov := reporter.Overview(reqCtx, criteria)
		handlerLogger.WithFields(logrus.Fields{
			"request_id": ov.RequestID,
			"rows":       len(ov.Rows),
			"total":      ov.Total,
		}).Info("Grading overview sent")
		return sendOverview(c, ov)
	})

	b.Handle(&telebot.Btn{Unique: pageButtonUnique}, func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   pageButtonUnique,
			"sender_id": c.Sender().ID,
		})
		if !access.Allowed(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized callback")
			return c.Respond(&telebot.CallbackResponse{Text: unauthorizedMessage})
		}

		values, err := url.ParseQuery(c.Callback().Data)
		if err != nil {
			c.Bot().OnError(fmt.Errorf("invalid grading page callback data %q: %w", c.Callback().Data, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Could not read this page."})
		}

		reqCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
		defer cancel()
		ov := reporter.Overview(reqCtx, botCriteria(values, reporter.Defaults()))

		if err := c.Edit(formatOverview(ov), editOptions(ov)); err != nil && !errors.Is(err, telebot.ErrSameMessageContent) {
			handlerLogger.WithError(err).Error("Failed to edit grading overview")
			return c.Respond(&telebot.CallbackResponse{Text: "Could not update the page."})
		}
		return c.Respond()
	})

	b.Handle("/grading_counts", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/grading_counts",
			"sender_id": c.Sender().ID,
		})
		if !access.Allowed(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMessage)
		}

		lessonID, ok := parseCountsArgs(c.Args())
		if !ok {
			return c.Send("Invalid command format. Use: /grading_counts [lesson_id=N]")
		}

		reqCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
		defer cancel()
		counts := reporter.Counts(reqCtx, lessonID)
		handlerLogger.WithField("lesson_id", lessonID).Info("Grading counts sent")
		return c.Send(formatCounts(counts, ""))
	})

	b.Handle("/courses", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/courses",
			"sender_id": c.Sender().ID,
		})
		if !access.Allowed(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMessage)
		}

		reqCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
		defer cancel()
		courses, err := catalogService.Courses(reqCtx)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list courses")
			return c.Send("An error occurred while listing courses. Please try again later.")
		}
		return c.Send(formatPosts("Courses", courses, "No courses found."))
	})

	b.Handle("/lessons", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/lessons",
			"sender_id": c.Sender().ID,
		})
		if !access.Allowed(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMessage)
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Invalid command format. Use: /lessons <course_id>")
		}
		courseID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Error: course id must be a number.")
		}
		handlerLogger = handlerLogger.WithField("course_id", courseID)

		reqCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
		defer cancel()
		lessons, err := catalogService.Lessons(reqCtx, courseID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list lessons")
			return c.Send("An error occurred while listing lessons. Please try again later.")
		}
		return c.Send(formatPosts("Lessons", lessons, "Please select a course first."))
	})
}

func editOptions(ov *app.Overview) *telebot.SendOptions {
	opts := &telebot.SendOptions{DisableWebPagePreview: true}
	if markup := pageMarkup(ov); markup != nil {
		opts.ReplyMarkup = markup
	} else {
		opts.ReplyMarkup = &telebot.ReplyMarkup{}
	}
	return opts
}

func sendOverview(c telebot.Context, ov *app.Overview) error {
	opts := &telebot.SendOptions{DisableWebPagePreview: true}
	if markup := pageMarkup(ov); markup != nil {
		opts.ReplyMarkup = markup
	}
	return c.Send(formatOverview(ov), opts)
}

// parseCountsArgs accepts "", "N", "lesson=N" and "lesson_id=N".
func parseCountsArgs(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, true
	}
	if len(args) > 1 {
		return 0, false
	}
	raw := args[0]
	if key, val, found := strings.Cut(raw, "="); found {
		if key != "lesson" && key != grading.ParamLessonID {
			return 0, false
		}
		raw = val
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
