package domain

import (
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleGuest   Role = "guest"
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator" // superuser, never stored in the roster
)

// Assignable reports whether the role may be stored on a roster entry.
func (r Role) Assignable() bool {
	return r == RoleUser || r == RoleAdmin
}

// WeightEntry is one point of the weight history.
type WeightEntry struct {
	Date   string  `bson:"date" json:"date"`
	Weight float64 `bson:"weight" json:"weight"`
}

// Message is one chat line stored with the user.
type Message struct {
	ID     string `bson:"id" json:"id"`
	Text   string `bson:"text" json:"text"`
	Sender string `bson:"sender" json:"sender"` // "user" or "admin"
	Time   string `bson:"time" json:"time"`
}

// User represents a roster entry (end user or admin).
type User struct {
	ID           string `bson:"_id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Username     string `bson:"username" json:"username"` // Should be unique
	PasswordHash string `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         Role   `bson:"role" json:"role"`
	IsBlocked    bool   `bson:"isBlocked" json:"isBlocked"`

	// --- Progress ---
	Category   string  `bson:"category,omitempty" json:"category,omitempty"` // name of the assigned template
	StartDate  string  `bson:"startDate,omitempty" json:"startDate,omitempty"`
	CurrentDay int     `bson:"currentDay" json:"currentDay"`
	Streak     int     `bson:"streak" json:"streak"`
	Progress   int     `bson:"progress" json:"progress"` // 0-100
	Weight     float64 `bson:"weight" json:"weight"`
	Height     float64 `bson:"height" json:"height"`
	GoalWeight float64 `bson:"goalWeight" json:"goalWeight"`
	Age        int     `bson:"age" json:"age"`

	// Plan is the user's own copy of a template's days.
	Plan          []DailyPlan   `bson:"plan" json:"plan"`
	WeightHistory []WeightEntry `bson:"weightHistory" json:"weightHistory"`
	Messages      []Message     `bson:"messages" json:"messages"`

	FavoriteRecipeIDs []string `bson:"favoriteRecipeIds,omitempty" json:"favoriteRecipeIds,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	// Version counts stored writes; the Mongo backend guards updates on it.
	Version int64 `bson:"version" json:"-"`
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	c := u
	c.Plan = CloneDays(u.Plan)
	if u.WeightHistory != nil {
		c.WeightHistory = append([]WeightEntry(nil), u.WeightHistory...)
	}
	if u.Messages != nil {
		c.Messages = append([]Message(nil), u.Messages...)
	}
	if u.FavoriteRecipeIDs != nil {
		c.FavoriteRecipeIDs = append([]string(nil), u.FavoriteRecipeIDs...)
	}
	return c
}

// DayPlan returns the plan entry for a 1-based day.
func (u *User) DayPlan(day int) (*DailyPlan, bool) {
	if day < 1 || day > len(u.Plan) {
		return nil, false
	}
	return &u.Plan[day-1], true
}

// IsFavorite reports whether the recipe is in the user's favorites.
func (u *User) IsFavorite(recipeID string) bool {
	for _, id := range u.FavoriteRecipeIDs {
		if id == recipeID {
			return true
		}
	}
	return false
}
