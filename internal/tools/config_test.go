package tools

import (
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestNewSnapshot(t *testing.T) {
	test.NewTempApp(t)

	c := New(Settings{Kind: Eraser, Color: "#ff0000", Width: 7})
	assert.Equal(t, Settings{Kind: Eraser, Color: "#FF0000", Width: 7}, c.Snapshot())
}

func TestInvalidValuesAreIgnored(t *testing.T) {
	test.NewTempApp(t)

	c := New(Defaults)
	c.SetKind("brush")
	c.SetColor("red")
	c.SetColor("#12345")

	assert.Equal(t, Defaults, c.Snapshot())
}

func TestSetWidthKeepsNonPositive(t *testing.T) {
	test.NewTempApp(t)

	c := New(Defaults)
	c.SetWidth(-2)
	assert.Equal(t, float32(-2), c.Snapshot().Width)
}

func TestPreferencesSeedAndRestore(t *testing.T) {
	a := test.NewTempApp(t)
	prefs := a.Preferences()

	c := NewWithPreferences(prefs, Defaults)
	assert.Equal(t, Defaults, c.Snapshot())

	c.SetKind(Eraser)
	c.SetColor("#00ff00")
	c.SetWidth(12)

	restored := NewWithPreferences(prefs, Defaults)
	assert.Equal(t, Settings{Kind: Eraser, Color: "#00FF00", Width: 12}, restored.Snapshot())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Eraser ")
	assert.NoError(t, err)
	assert.Equal(t, Eraser, k)

	k, err = ParseKind("marker")
	assert.Error(t, err)
	assert.Equal(t, Pen, k)
}

func TestValidColor(t *testing.T) {
	for _, s := range []string{"#FF0000", "ff0000", "#ff000080"} {
		assert.True(t, ValidColor(s), s)
	}
	for _, s := range []string{"", "#FFF", "#GG0000", "blue"} {
		assert.False(t, ValidColor(s), s)
	}
}

func TestAddListenerSeesChanges(t *testing.T) {
	test.NewTempApp(t)

	c := New(Defaults)
	var mu sync.Mutex
	var last Settings
	c.AddListener(func(s Settings) {
		mu.Lock()
		last = s
		mu.Unlock()
	})

	c.SetKind(Eraser)
	c.SetColor("#00ff00")
	c.SetWidth(12)

	want := Settings{Kind: Eraser, Color: "#00FF00", Width: 12}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last == want
	}, time.Second, 10*time.Millisecond)
}
