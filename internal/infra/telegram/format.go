package telegram

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf16"

	"grading_overview_bot/internal/app"
	"grading_overview_bot/internal/domain/catalog"
	"grading_overview_bot/internal/domain/grading"

	"gopkg.in/telebot.v3"
)

const (
	pageButtonUnique = "grd_page"
	// Telegram limits callback data to 64 bytes; telebot adds "\f<unique>|".
	maxPagePayload = 64 - len("\f"+pageButtonUnique+"|")
	timeLayout     = "2006-01-02 15:04"
	// Telegram rejects text messages longer than 4096 UTF-16 code units.
	maxMessageLength = 4096
	maxBotPerPage    = 25
)

// argAliases maps the short names accepted in chat to request parameters.
var argAliases = map[string]string{
	"search": grading.ParamSearch,
	"page":   grading.ParamPage,
	"status": grading.ParamStatus,
	"course": grading.ParamCourseID,
	"lesson": grading.ParamLessonID,
	"sort":   grading.ParamOrderBy,
}

// parseArgs turns "key=value" command arguments into request parameters.
// Words without "=" continue the previous value, or the search term when
// they come first, so "/grading s=John Doe" searches for "John Doe".
func parseArgs(args []string) url.Values {
	v := url.Values{}
	last := grading.ParamSearch
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			v.Set(last, strings.TrimSpace(v.Get(last)+" "+arg))
			continue
		}
		key = strings.ToLower(key)
		if canonical, ok := argAliases[key]; ok {
			key = canonical
		}
		v.Set(key, val)
		last = key
	}
	return v
}

// botCriteria builds criteria from chat parameters, keeping pages small
// enough for one message.
func botCriteria(v url.Values, d grading.Defaults) grading.FilterCriteria {
	c := grading.CriteriaFromValues(v, d)
	if c.PerPage > maxBotPerPage {
		c.PerPage = maxBotPerPage
	}
	return c
}

func messageLength(s string) int {
	n := 0
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}

// truncateMessage cuts s to the message limit, marking the cut with "…".
func truncateMessage(s string) string {
	if messageLength(s) <= maxMessageLength {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		l := max(utf16.RuneLen(r), 1)
		if n+l > maxMessageLength-1 {
			break
		}
		b.WriteRune(r)
		n += l
	}
	b.WriteString("…")
	return b.String()
}

func filterLabel(f grading.StatusFilter) string {
	if f == grading.FilterAll {
		return "All"
	}
	return grading.Status(f).Label()
}

// formatCounts renders the header counts in filter order, the selected
// filter in brackets.
func formatCounts(c grading.Counts, selected grading.StatusFilter) string {
	filters := []grading.StatusFilter{grading.FilterAll, grading.FilterUngraded, grading.FilterGraded, grading.FilterInProgress}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		part := fmt.Sprintf("%s %d", filterLabel(f), c.For(f))
		if f == selected {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " | ")
}

// formatOverview renders one overview page as a plain text message. Rows
// that would push it past the message limit are left out and counted.
func formatOverview(ov *app.Overview) string {
	var b strings.Builder
	c := ov.Criteria
	fmt.Fprintf(&b, "Grading: %s, page %d\n", filterLabel(c.Status), c.Page)
	if c.LessonID > 0 {
		fmt.Fprintf(&b, "Lesson #%d\n", c.LessonID)
	}
	if c.Search != "" {
		fmt.Fprintf(&b, "Search: %q\n", c.Search)
	}
	b.WriteString(formatCounts(ov.Counts, c.Status))
	b.WriteString("\n")

	if len(ov.Rows) == 0 {
		b.WriteString("\n")
		b.WriteString(ov.EmptyMessage)
		return b.String()
	}

	length := messageLength(b.String())
	for i, row := range ov.Rows {
		entry := formatRow(c.Offset()+i+1, row)
		rest := len(ov.Rows) - i - 1
		reserve := 0
		if rest > 0 {
			reserve = messageLength(moreRows(rest))
		}
		if length+messageLength(entry)+reserve > maxMessageLength {
			b.WriteString(moreRows(len(ov.Rows) - i))
			break
		}
		b.WriteString(entry)
		length += messageLength(entry)
	}
	return truncateMessage(strings.TrimRight(b.String(), "\n"))
}

func formatRow(n int, row grading.Row) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d. %s\n", n, learnerName(row))
	fmt.Fprintf(&b, "   %s / %s\n", orDash(row.CourseTitle), orDash(row.LessonTitle))
	fmt.Fprintf(&b, "   %s, %s, %s\n", row.StatusLabel, row.GradeDisplay, row.UpdatedAt.Format(timeLayout))
	if row.Action.Kind != grading.ActionNone {
		fmt.Fprintf(&b, "   %s: %s\n", row.Action.Label, row.Action.URL)
	}
	return b.String()
}

func moreRows(n int) string {
	return fmt.Sprintf("\n… %d more not shown, narrow the search or use a smaller per_page", n)
}

func learnerName(row grading.Row) string {
	switch {
	case row.UserDisplayName != "" && row.UserLogin != "":
		return fmt.Sprintf("%s (%s)", row.UserDisplayName, row.UserLogin)
	case row.UserDisplayName != "":
		return row.UserDisplayName
	case row.UserLogin != "":
		return row.UserLogin
	default:
		return fmt.Sprintf("User #%d", row.UserID)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatPosts(title string, posts []catalog.Post, empty string) string {
	if len(posts) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n")
	for _, p := range posts {
		fmt.Fprintf(&b, "%d: %s\n", p.ID, orDash(p.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}

// pagePayload encodes the criteria of another page into callback data.
// It reports false when the encoding does not fit a callback button.
func pagePayload(c grading.FilterCriteria, page int) (string, bool) {
	c.Page = page
	payload := c.Values().Encode()
	if payload == "" {
		payload = grading.ParamPage + "=1"
	}
	return payload, len(payload) <= maxPagePayload
}

// pageMarkup returns the previous/next buttons of an overview page, or nil
// when there is nothing to page to.
func pageMarkup(ov *app.Overview) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var buttons []telebot.Btn
	if ov.Criteria.Page > 1 {
		if payload, ok := pagePayload(ov.Criteria, ov.Criteria.Page-1); ok {
			buttons = append(buttons, markup.Data("« Prev", pageButtonUnique, payload))
		}
	}
	if ov.HasNext {
		if payload, ok := pagePayload(ov.Criteria, ov.Criteria.Page+1); ok {
			buttons = append(buttons, markup.Data("Next »", pageButtonUnique, payload))
		}
	}
	if len(buttons) == 0 {
		return nil
	}
	markup.Inline(markup.Row(buttons...))
	return markup
}
