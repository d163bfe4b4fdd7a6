package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minterviewer/internal/session"
)

// inTempDir выполняет тест в пустом временном каталоге, чтобы результаты
// не засоряли рабочее дерево
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func TestSaveLoadSession(t *testing.T) {
	inTempDir(t)

	result := &session.Result{
		InterviewID: "abc-123",
		Answers: []session.AnswerRecord{
			{Question: session.Question{Text: "q1"}, Answer: "a1"},
		},
		Questions: []session.Question{{Text: "q1"}},
		Timestamp: "2026-08-31T12:00:00Z",
		Duration:  300,
	}

	require.NoError(t, SaveSession(result))

	loaded, err := LoadSession("abc-123")
	require.NoError(t, err)
	assert.Equal(t, result.InterviewID, loaded.InterviewID)
	require.Len(t, loaded.Answers, 1)
	assert.Equal(t, "a1", loaded.Answers[0].Answer)
	assert.Equal(t, 300, loaded.Duration)
}

func TestLoadSessionMissing(t *testing.T) {
	inTempDir(t)

	_, err := LoadSession("missing")
	require.Error(t, err)
}

func TestListSessions(t *testing.T) {
	inTempDir(t)

	// Пустой каталог результатов не является ошибкой
	ids, err := ListSessions()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, SaveSession(&session.Result{InterviewID: "one"}))
	require.NoError(t, SaveSession(&session.Result{InterviewID: "two"}))
	require.NoError(t, SaveReport("one", map[string]int{"overallScore": 82}))

	ids, err = ListSessions()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, ids)
}

func TestSaveReportWithoutID(t *testing.T) {
	inTempDir(t)

	require.NoError(t, SaveReport("", map[string]int{"overallScore": 82}))
	_, err := os.Stat("results/report_unsaved.json")
	require.NoError(t, err)
}
