package wordfilter

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFilter() *Filter {
	return New([]string{"spam"}, []string{"test"})
}

func TestClassify(t *testing.T) {
	f := newTestFilter()

	tests := []struct {
		name        string
		eventName   string
		description string
		want        Classification
	}{
		{"forbidden word in name", "Free SPAM offer", "desc", Blocked},
		{"flagged word in name", "test event", "desc", NeedsReview},
		{"clean", "Joker 2021", "Java conference", Clean},
		{"forbidden word in description", "Meetup", "no spam please", Blocked},
		{"flagged word in description", "Meetup", "a Test run", NeedsReview},
		{"forbidden wins over flagged", "test", "spam", Blocked},
		{"forbidden wins in same field", "spam test", "", Blocked},
		{"empty strings", "", "", Clean},
		{"whitespace only", "   ", "\t", Clean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Classify(tt.eventName, tt.description)
			assert.Equal(t, tt.want, got, "Classify(%q, %q)", tt.eventName, tt.description)
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	f := New([]string{"BadWord"}, []string{"Promo"})

	assert.Equal(t, f.Classify("BADWORD", ""), f.Classify("badword", ""))
	assert.Equal(t, Blocked, f.Classify("BaDwOrD", ""))
	assert.Equal(t, NeedsReview, f.Classify("", "PROMO code inside"))
}

func TestClassify_Cyrillic(t *testing.T) {
	f := New([]string{"Казино"}, []string{"реклама"})

	assert.Equal(t, Blocked, f.Classify("Онлайн КАЗИНО", ""))
	assert.Equal(t, NeedsReview, f.Classify("Встреча", "Здесь будет РЕКЛАМА"))
	assert.Equal(t, Clean, f.Classify("Джокер 2021", "Конференция Java-разработчиков"))
}

// Matching is substring containment, so a configured word also matches
// inside longer words.
func TestClassify_PartialWordsMatch(t *testing.T) {
	f := New([]string{"spam"}, []string{"test"})

	assert.Equal(t, Blocked, f.Classify("spammers welcome", ""))
	assert.Equal(t, NeedsReview, f.Classify("Contest night", ""))
	assert.Equal(t, NeedsReview, f.Classify("", "latest news"))
}

func TestContainsForbiddenAndFlagged(t *testing.T) {
	f := newTestFilter()

	assert.True(t, f.ContainsForbidden("SPAM"))
	assert.False(t, f.ContainsForbidden("test"))
	assert.False(t, f.ContainsForbidden(""))

	assert.True(t, f.ContainsFlagged("TeSt"))
	assert.False(t, f.ContainsFlagged("spam"))
	assert.False(t, f.ContainsFlagged(""))
}

func TestNew_DropsEmptyAndDuplicateWords(t *testing.T) {
	f := New([]string{"", "  ", "Spam", "spam ", "SPAM"}, []string{"\t", "test"})

	forbidden, unnecessary := f.Sizes()
	assert.Equal(t, 1, forbidden)
	assert.Equal(t, 1, unnecessary)

	// An empty configured word must not match every text.
	assert.Equal(t, Clean, f.Classify("anything at all", "really"))
}

func TestNew_EmptyLists(t *testing.T) {
	f := New(nil, nil)
	assert.Equal(t, Clean, f.Classify("spam", "test"))
}

func TestNew_DoesNotRetainInput(t *testing.T) {
	words := []string{"spam"}
	f := New(words, nil)
	words[0] = "other"

	assert.True(t, f.ContainsForbidden("spam"))
	assert.False(t, f.ContainsForbidden("other"))
}

func TestInspect(t *testing.T) {
	f := New([]string{"spam", "scam"}, []string{"test", "promo"})

	tests := []struct {
		name        string
		eventName   string
		description string
		want        Verdict
	}{
		{
			name:      "clean has no word",
			eventName: "GopherCon",
			want:      Verdict{Classification: Clean},
		},
		{
			name:        "forbidden in description",
			eventName:   "Meetup",
			description: "totally not a SCAM",
			want:        Verdict{Classification: Blocked, Word: "scam", Field: FieldDescription},
		},
		{
			name:        "name checked before description",
			eventName:   "spam",
			description: "scam",
			want:        Verdict{Classification: Blocked, Word: "spam", Field: FieldName},
		},
		{
			name:        "forbidden description beats flagged name",
			eventName:   "promo night",
			description: "spam",
			want:        Verdict{Classification: Blocked, Word: "spam", Field: FieldDescription},
		},
		{
			name:        "flagged in description",
			eventName:   "Meetup",
			description: "bring a promo code",
			want:        Verdict{Classification: NeedsReview, Word: "promo", Field: FieldDescription},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Inspect(tt.eventName, tt.description))
		})
	}
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "clean", Clean.String())
	assert.Equal(t, "blocked", Blocked.String())
	assert.Equal(t, "needs_review", NeedsReview.String())
	assert.Equal(t, "unknown", Classification(42).String())
}

func TestVerdictJSON(t *testing.T) {
	data, err := json.Marshal(Verdict{Classification: NeedsReview, Word: "test", Field: FieldName})
	require.NoError(t, err)
	assert.JSONEq(t, `{"classification":"needs_review","word":"test","field":"name"}`, string(data))

	data, err = json.Marshal(Verdict{Classification: Clean})
	require.NoError(t, err)
	assert.JSONEq(t, `{"classification":"clean"}`, string(data))
}

func TestFilter_ConcurrentUse(t *testing.T) {
	f := newTestFilter()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				name := fmt.Sprintf("event %d-%d", i, j)
				if got := f.Classify(name, "SPAM"); got != Blocked {
					t.Errorf("Classify(%q) = %v, want %v", name, got, Blocked)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
