package tatsu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Snowflake is a Discord ID. The vendor emits IDs as decimal strings;
// tooling and fixtures often carry bare numbers, so both decode. It
// always encodes as a string to survive JSON readers that truncate
// 64-bit integers.
type Snowflake int64

// String returns the decimal form of the ID
func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// MarshalJSON encodes the ID as a decimal string
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", string(data), err)
	}
	*s = Snowflake(v)
	return nil
}

// ActionType selects how a points or score mutation is applied
type ActionType int

const (
	ActionAdd    ActionType = 0
	ActionRemove ActionType = 1
)

// String implements fmt.Stringer
func (a ActionType) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// SubscriptionType is a user's Tatsu supporter tier
type SubscriptionType int

const (
	SubscriptionNone SubscriptionType = iota
	SubscriptionSupporter1
	SubscriptionSupporter2
	SubscriptionSupporter3
)

// String implements fmt.Stringer
func (s SubscriptionType) String() string {
	switch s {
	case SubscriptionNone:
		return "none"
	case SubscriptionSupporter1:
		return "supporter"
	case SubscriptionSupporter2:
		return "supporter+"
	case SubscriptionSupporter3:
		return "supporter++"
	default:
		return fmt.Sprintf("subscription(%d)", int(s))
	}
}

// CurrencyType identifies a Tatsu store currency
type CurrencyType int

const (
	CurrencyCredits CurrencyType = iota
	CurrencyTokens
	CurrencyEmeralds
	CurrencyCandyCane
	CurrencyUSD
	CurrencyCandyCorn
)

// String implements fmt.Stringer
func (c CurrencyType) String() string {
	switch c {
	case CurrencyCredits:
		return "credits"
	case CurrencyTokens:
		return "tokens"
	case CurrencyEmeralds:
		return "emeralds"
	case CurrencyCandyCane:
		return "candy cane"
	case CurrencyUSD:
		return "usd"
	case CurrencyCandyCorn:
		return "candy corn"
	default:
		return fmt.Sprintf("currency(%d)", int(c))
	}
}

// Period is the time range a ranking covers
type Period string

const (
	PeriodAll   Period = "all"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
)

// Valid reports whether the period is one the vendor accepts
func (p Period) Valid() bool {
	switch p {
	case PeriodAll, PeriodMonth, PeriodWeek:
		return true
	default:
		return false
	}
}

// UserProfile is a Tatsu user's global profile
type UserProfile struct {
	ID                  Snowflake        `json:"id"`
	Username            string           `json:"username"`
	Discriminator       string           `json:"discriminator,omitempty"`
	AvatarHash          string           `json:"avatar_hash,omitempty"`
	AvatarURL           string           `json:"avatar_url,omitempty"`
	Credits             int64            `json:"credits"`
	Tokens              int64            `json:"tokens,omitempty"`
	Reputation          int64            `json:"reputation"`
	XP                  int64            `json:"xp,omitempty"`
	InfoBox             string           `json:"info_box,omitempty"`
	Title               string           `json:"title,omitempty"`
	SubscriptionType    SubscriptionType `json:"subscription_type,omitempty"`
	SubscriptionRenewal *time.Time       `json:"subscription_renewal,omitempty"`
}

// GuildMemberPoints is a guild member's points standing
type GuildMemberPoints struct {
	GuildID Snowflake `json:"guild_id,omitempty"`
	UserID  Snowflake `json:"user_id,omitempty"`
	Points  int64     `json:"points"`
	Rank    int64     `json:"rank,omitempty"`
}

// GuildMemberScore is a guild member's score standing
type GuildMemberScore struct {
	GuildID Snowflake `json:"guild_id,omitempty"`
	UserID  Snowflake `json:"user_id,omitempty"`
	Score   int64     `json:"score"`
}

// GuildMemberRanking is one member's rank over a period
type GuildMemberRanking struct {
	GuildID Snowflake `json:"guild_id,omitempty"`
	UserID  Snowflake `json:"user_id,omitempty"`
	Rank    int64     `json:"rank"`
	Score   int64     `json:"score"`
}

// Ranking is one leaderboard row
type Ranking struct {
	Rank   int64     `json:"rank"`
	Score  int64     `json:"score"`
	UserID Snowflake `json:"user_id"`
}

// GuildRankings is a page (or stitched range) of a guild leaderboard
type GuildRankings struct {
	GuildID  Snowflake `json:"guild_id"`
	Rankings []Ranking `json:"rankings"`
}

// StorePrice is one way to pay for a store listing
type StorePrice struct {
	Currency CurrencyType `json:"currency"`
	Amount   float64      `json:"amount"`
}

// StoreListing is a Tatsu store item
type StoreListing struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	New         bool         `json:"new,omitempty"`
	Preview     string       `json:"preview,omitempty"`
	Prices      []StorePrice `json:"prices,omitempty"`
	Categories  []string     `json:"categories,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}
