package model

import "time"

// DefaultFocusDuration is the focus timer length in minutes for new accounts.
const DefaultFocusDuration = 45

// FocusSession is the persisted state of the focus timer.
type FocusSession struct {
	IsActive         bool       `json:"isActive"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	RemainingOnPause *int       `json:"remainingOnPause,omitempty"`
}

// Settings holds per-account preferences and the ordered category list.
type Settings struct {
	FocusDuration int           `json:"focusDuration" validate:"gte=0"`
	Categories    []Category    `json:"categories" validate:"dive"`
	FocusSession  *FocusSession `json:"focusSession,omitempty"`
}

// UserData is the aggregate persisted per account.
type UserData struct {
	Settings Settings `json:"settings"`
	Log      Log      `json:"log"`
}

// EmptyUserData returns the aggregate a new account starts with.
func EmptyUserData() UserData {
	return UserData{
		Settings: Settings{
			FocusDuration: DefaultFocusDuration,
			Categories:    []Category{},
		},
		Log: Log{},
	}
}

// Normalize fills defaults for fields a partially-migrated document may lack.
func (d UserData) Normalize() UserData {
	if d.Settings.FocusDuration <= 0 {
		d.Settings.FocusDuration = DefaultFocusDuration
	}
	if d.Settings.Categories == nil {
		d.Settings.Categories = []Category{}
	}
	if d.Log == nil {
		d.Log = Log{}
	}
	return d
}

// Clone returns a deep copy of the aggregate.
func (d UserData) Clone() UserData {
	out := d
	out.Settings.Categories = make([]Category, len(d.Settings.Categories))
	for i, cat := range d.Settings.Categories {
		out.Settings.Categories[i] = cat.Clone()
	}
	if d.Settings.FocusSession != nil {
		fs := *d.Settings.FocusSession
		if fs.EndTime != nil {
			end := *fs.EndTime
			fs.EndTime = &end
		}
		if fs.RemainingOnPause != nil {
			rem := *fs.RemainingOnPause
			fs.RemainingOnPause = &rem
		}
		out.Settings.FocusSession = &fs
	}
	out.Log = d.Log.Clone()
	return out
}

// CategoryIndex returns the position of a category, or -1.
func (d UserData) CategoryIndex(id string) int {
	for i, cat := range d.Settings.Categories {
		if cat.ID == id {
			return i
		}
	}
	return -1
}
