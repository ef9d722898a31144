package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(b *telebot.Bot, access Access, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if access.Allowed(senderID) {
			return c.Send(fmt.Sprintf("Hello, %s! Use /grading to see the quizzes waiting for a grade, or /help for all commands.", c.Sender().FirstName))
		}
		logCtx.Info("User is unknown")
		return c.Send("Hello! This bot reports the quiz grading backlog to course staff. Please ask the administrator for access.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if !access.Allowed(senderID) {
			return c.Send("No commands are available to you. Please ask the administrator for access.")
		}
		return c.Send(helpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

func helpText() string {
	var helpText strings.Builder
	helpText.WriteString("Available commands:\n\n")
	helpText.WriteString("`/grading [key=value ...]`\n - Grading overview. Keys: `status` (all, ungraded, graded, in-progress), `lesson`, `course`, `search`, `page`, `sort` (user\\_login, course, lesson, updated, user\\_status, user\\_grade), `order` (asc, desc).\n\n")
	helpText.WriteString("`/grading_counts [lesson_id]`\n - Learners per grading status.\n\n")
	helpText.WriteString("`/courses`\n - List courses.\n\n")
	helpText.WriteString("`/lessons <course_id>`\n - List the lessons of a course.\n\n")
	helpText.WriteString("`/help`\n - Show this message.")
	return helpText.String()
}
