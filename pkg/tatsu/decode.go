package tatsu

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	apierrors "tatsugo/pkg/errors"
)

// Strict decoders for every payload the vendor serves. A required field
// that is missing or carries the wrong JSON type fails with a
// DecodeError naming the field; a drifted vendor schema must never
// produce a silently defaulted record. Unknown fields are ignored so
// the vendor can add fields without breaking us.

// jsonTypeName reports the JSON type of a raw value for error messages
func jsonTypeName(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return "missing"
	}
	switch t[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func decodeErr(field, expected, actual string) *apierrors.DecodeError {
	return &apierrors.DecodeError{Field: field, Expected: expected, Actual: actual}
}

// payload is one parsed JSON object with per-field access checks
type payload map[string]json.RawMessage

func parseObject(data []byte) (payload, *apierrors.DecodeError) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, decodeErr("", "object", jsonTypeName(trimmed))
	}
	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, &apierrors.DecodeError{Err: err}
	}
	return p, nil
}

func (p payload) requireString(field string) (string, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok {
		return "", decodeErr(field, "string", "missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", decodeErr(field, "string", jsonTypeName(raw))
	}
	return s, nil
}

// optionalString returns "" when the field is absent or null
func (p payload) optionalString(field string) (string, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok || jsonTypeName(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", decodeErr(field, "string", jsonTypeName(raw))
	}
	return s, nil
}

func (p payload) requireInt(field string) (int64, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok {
		return 0, decodeErr(field, "integer", "missing")
	}
	return parseInt(field, raw)
}

func (p payload) optionalInt(field string) (int64, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok || jsonTypeName(raw) == "null" {
		return 0, nil
	}
	return parseInt(field, raw)
}

func parseInt(field string, raw json.RawMessage) (int64, *apierrors.DecodeError) {
	if jsonTypeName(raw) != "number" {
		return 0, decodeErr(field, "integer", jsonTypeName(raw))
	}
	v, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		// A fractional or out-of-range number is still the wrong type
		// for a 64-bit counter
		return 0, decodeErr(field, "integer", "number")
	}
	return v, nil
}

func (p payload) requireFloat(field string) (float64, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok {
		return 0, decodeErr(field, "number", "missing")
	}
	if jsonTypeName(raw) != "number" {
		return 0, decodeErr(field, "number", jsonTypeName(raw))
	}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64)
	if err != nil {
		return 0, decodeErr(field, "number", "number")
	}
	return v, nil
}

func (p payload) optionalBool(field string) (bool, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok || jsonTypeName(raw) == "null" {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, decodeErr(field, "boolean", jsonTypeName(raw))
	}
	return b, nil
}

func parseSnowflake(field string, raw json.RawMessage) (Snowflake, *apierrors.DecodeError) {
	switch jsonTypeName(raw) {
	case "string", "number":
		var s Snowflake
		if err := s.UnmarshalJSON(bytes.TrimSpace(raw)); err != nil {
			return 0, decodeErr(field, "snowflake", jsonTypeName(raw))
		}
		return s, nil
	default:
		return 0, decodeErr(field, "snowflake", jsonTypeName(raw))
	}
}

func (p payload) requireSnowflake(field string) (Snowflake, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok {
		return 0, decodeErr(field, "snowflake", "missing")
	}
	return parseSnowflake(field, raw)
}

func (p payload) optionalSnowflake(field string) (Snowflake, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok || jsonTypeName(raw) == "null" {
		return 0, nil
	}
	return parseSnowflake(field, raw)
}

// optionalTime parses an RFC 3339 timestamp, returning nil when the
// field is absent or null
func (p payload) optionalTime(field string) (*time.Time, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok || jsonTypeName(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, decodeErr(field, "timestamp", jsonTypeName(raw))
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, decodeErr(field, "timestamp", "string")
	}
	return &t, nil
}

func (p payload) optionalStrings(field string) ([]string, *apierrors.DecodeError) {
	raw, ok := p[field]
	if !ok || jsonTypeName(raw) == "null" {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, decodeErr(field, "array of strings", jsonTypeName(raw))
	}
	return s, nil
}

// DecodeUserProfile decodes a GET /users/{user_id}/profile payload.
// Required: id, username, credits, reputation.
func DecodeUserProfile(data []byte) (*UserProfile, error) {
	p, derr := parseObject(data)
	if derr != nil {
		return nil, derr
	}

	u := &UserProfile{}
	if u.ID, derr = p.requireSnowflake("id"); derr != nil {
		return nil, derr
	}
	if u.Username, derr = p.requireString("username"); derr != nil {
		return nil, derr
	}
	if u.Credits, derr = p.requireInt("credits"); derr != nil {
		return nil, derr
	}
	if u.Reputation, derr = p.requireInt("reputation"); derr != nil {
		return nil, derr
	}
	if u.Tokens, derr = p.optionalInt("tokens"); derr != nil {
		return nil, derr
	}
	if u.XP, derr = p.optionalInt("xp"); derr != nil {
		return nil, derr
	}
	if u.Discriminator, derr = p.optionalString("discriminator"); derr != nil {
		return nil, derr
	}
	if u.AvatarHash, derr = p.optionalString("avatar_hash"); derr != nil {
		return nil, derr
	}
	if u.AvatarURL, derr = p.optionalString("avatar_url"); derr != nil {
		return nil, derr
	}
	if u.InfoBox, derr = p.optionalString("info_box"); derr != nil {
		return nil, derr
	}
	if u.Title, derr = p.optionalString("title"); derr != nil {
		return nil, derr
	}
	sub, derr := p.optionalInt("subscription_type")
	if derr != nil {
		return nil, derr
	}
	u.SubscriptionType = SubscriptionType(sub)
	if u.SubscriptionRenewal, derr = p.optionalTime("subscription_renewal"); derr != nil {
		return nil, derr
	}
	return u, nil
}

// DecodeGuildMemberPoints decodes a points lookup or mutation payload.
// Required: points. The vendor omits guild_id and rank on some
// mutation responses.
func DecodeGuildMemberPoints(data []byte) (*GuildMemberPoints, error) {
	p, derr := parseObject(data)
	if derr != nil {
		return nil, derr
	}

	m := &GuildMemberPoints{}
	if m.Points, derr = p.requireInt("points"); derr != nil {
		return nil, derr
	}
	if m.Rank, derr = p.optionalInt("rank"); derr != nil {
		return nil, derr
	}
	if m.GuildID, derr = p.optionalSnowflake("guild_id"); derr != nil {
		return nil, derr
	}
	if m.UserID, derr = p.optionalSnowflake("user_id"); derr != nil {
		return nil, derr
	}
	return m, nil
}

// DecodeGuildMemberScore decodes a score mutation payload.
// Required: score.
func DecodeGuildMemberScore(data []byte) (*GuildMemberScore, error) {
	p, derr := parseObject(data)
	if derr != nil {
		return nil, derr
	}

	m := &GuildMemberScore{}
	if m.Score, derr = p.requireInt("score"); derr != nil {
		return nil, derr
	}
	if m.GuildID, derr = p.optionalSnowflake("guild_id"); derr != nil {
		return nil, derr
	}
	if m.UserID, derr = p.optionalSnowflake("user_id"); derr != nil {
		return nil, derr
	}
	return m, nil
}

// DecodeGuildMemberRanking decodes a single member's ranking payload.
// Required: rank, score.
func DecodeGuildMemberRanking(data []byte) (*GuildMemberRanking, error) {
	p, derr := parseObject(data)
	if derr != nil {
		return nil, derr
	}

	r := &GuildMemberRanking{}
	if r.Rank, derr = p.requireInt("rank"); derr != nil {
		return nil, derr
	}
	if r.Score, derr = p.requireInt("score"); derr != nil {
		return nil, derr
	}
	if r.GuildID, derr = p.optionalSnowflake("guild_id"); derr != nil {
		return nil, derr
	}
	if r.UserID, derr = p.optionalSnowflake("user_id"); derr != nil {
		return nil, derr
	}
	return r, nil
}

func decodeRanking(data json.RawMessage) (Ranking, *apierrors.DecodeError) {
	p, derr := parseObject(data)
	if derr != nil {
		return Ranking{}, derr
	}

	r := Ranking{}
	if r.Rank, derr = p.requireInt("rank"); derr != nil {
		return Ranking{}, derr
	}
	if r.Score, derr = p.requireInt("score"); derr != nil {
		return Ranking{}, derr
	}
	if r.UserID, derr = p.requireSnowflake("user_id"); derr != nil {
		return Ranking{}, derr
	}
	return r, nil
}

// DecodeGuildRankings decodes a leaderboard page.
// Required: guild_id; an absent or empty rankings array yields an
// empty, non-nil slice.
func DecodeGuildRankings(data []byte) (*GuildRankings, error) {
	p, derr := parseObject(data)
	if derr != nil {
		return nil, derr
	}

	g := &GuildRankings{Rankings: []Ranking{}}
	if g.GuildID, derr = p.requireSnowflake("guild_id"); derr != nil {
		return nil, derr
	}

	raw, ok := p["rankings"]
	if !ok || jsonTypeName(raw) == "null" {
		return g, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, decodeErr("rankings", "array", jsonTypeName(raw))
	}
	for _, row := range rows {
		r, derr := decodeRanking(row)
		if derr != nil {
			return nil, derr
		}
		g.Rankings = append(g.Rankings, r)
	}
	return g, nil
}

func decodeStorePrice(data json.RawMessage) (StorePrice, *apierrors.DecodeError) {
	p, derr := parseObject(data)
	if derr != nil {
		return StorePrice{}, derr
	}

	sp := StorePrice{}
	currency, derr := p.requireInt("currency")
	if derr != nil {
		return StorePrice{}, derr
	}
	sp.Currency = CurrencyType(currency)
	if sp.Amount, derr = p.requireFloat("amount"); derr != nil {
		return StorePrice{}, derr
	}
	return sp, nil
}

// DecodeStoreListing decodes a store listing payload.
// Required: id, name.
func DecodeStoreListing(data []byte) (*StoreListing, error) {
	p, derr := parseObject(data)
	if derr != nil {
		return nil, derr
	}

	l := &StoreListing{}
	if l.ID, derr = p.requireString("id"); derr != nil {
		return nil, derr
	}
	if l.Name, derr = p.requireString("name"); derr != nil {
		return nil, derr
	}
	if l.Summary, derr = p.optionalString("summary"); derr != nil {
		return nil, derr
	}
	if l.Description, derr = p.optionalString("description"); derr != nil {
		return nil, derr
	}
	if l.New, derr = p.optionalBool("new"); derr != nil {
		return nil, derr
	}
	if l.Preview, derr = p.optionalString("preview"); derr != nil {
		return nil, derr
	}
	if l.Categories, derr = p.optionalStrings("categories"); derr != nil {
		return nil, derr
	}
	if l.Tags, derr = p.optionalStrings("tags"); derr != nil {
		return nil, derr
	}

	raw, ok := p["prices"]
	if ok && jsonTypeName(raw) != "null" {
		var rows []json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, decodeErr("prices", "array", jsonTypeName(raw))
		}
		for _, row := range rows {
			price, derr := decodeStorePrice(row)
			if derr != nil {
				return nil, derr
			}
			l.Prices = append(l.Prices, price)
		}
	}
	return l, nil
}
