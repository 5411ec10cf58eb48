package tatsu

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the base URL for the Tatsu API
	DefaultBaseURL = "https://api.tatsu.gg/v1"

	// UserProfileEndpoint is the path template for user profiles
	UserProfileEndpoint = "/users/{user_id}/profile"

	// MemberPointsEndpoint is the path template for member points
	MemberPointsEndpoint = "/guilds/{guild_id}/members/{member_id}/points"

	// MemberScoreEndpoint is the path template for member score
	MemberScoreEndpoint = "/guilds/{guild_id}/members/{member_id}/score"

	// MemberRankingEndpoint is the path template for one member's ranking
	MemberRankingEndpoint = "/guilds/{guild_id}/rankings/members/{member_id}/{period}"

	// GuildRankingsEndpoint is the path template for a leaderboard page
	GuildRankingsEndpoint = "/guilds/{guild_id}/rankings/{period}"

	// StoreListingEndpoint is the path template for a store listing
	StoreListingEndpoint = "/store/listings/{listing_id}"

	// RankingsPageSize is the number of leaderboard rows per page
	RankingsPageSize = 100

	// MaxMutationAmount is the vendor's cap on a single points or score
	// change, in either direction
	MaxMutationAmount = 100_000
)

// Route is one fully resolved API call: method, path with all
// placeholders substituted, query string and optional JSON body. Routes
// are immutable values consumed once by the executor.
type Route struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Endpoint returns the path with the query string attached, relative to
// the base URL
func (r Route) Endpoint() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// newRoute substitutes {placeholder} parameters into a path template
func newRoute(method, template string, params map[string]string) Route {
	path := template
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(value))
	}
	return Route{Method: method, Path: path}
}

// mutationBody is the request body for points and score mutations
type mutationBody struct {
	Action ActionType `json:"action"`
	Amount int64      `json:"amount"`
}

// validateMutationAmount enforces the vendor's bounds on a signed delta
func validateMutationAmount(amount int64) error {
	if amount == 0 {
		return fmt.Errorf("amount must not be 0")
	}
	if amount > MaxMutationAmount || amount < -MaxMutationAmount {
		return fmt.Errorf("amount must be at most %d in either direction, got %d", MaxMutationAmount, amount)
	}
	return nil
}

// splitMutationAmount maps a signed delta onto the vendor's
// action+magnitude form
func splitMutationAmount(amount int64) (ActionType, int64) {
	if amount < 0 {
		return ActionRemove, -amount
	}
	return ActionAdd, amount
}

func routeUserProfile(userID Snowflake) Route {
	return newRoute("GET", UserProfileEndpoint, map[string]string{
		"user_id": userID.String(),
	})
}

func routeMemberPoints(guildID, memberID Snowflake) Route {
	return newRoute("GET", MemberPointsEndpoint, map[string]string{
		"guild_id":  guildID.String(),
		"member_id": memberID.String(),
	})
}

func routeUpdateMemberPoints(guildID, memberID Snowflake, amount int64) (Route, error) {
	if err := validateMutationAmount(amount); err != nil {
		return Route{}, err
	}
	action, magnitude := splitMutationAmount(amount)
	body, err := json.Marshal(mutationBody{Action: action, Amount: magnitude})
	if err != nil {
		return Route{}, err
	}
	r := newRoute("PATCH", MemberPointsEndpoint, map[string]string{
		"guild_id":  guildID.String(),
		"member_id": memberID.String(),
	})
	r.Body = body
	return r, nil
}

func routeUpdateMemberScore(guildID, memberID Snowflake, amount int64) (Route, error) {
	if err := validateMutationAmount(amount); err != nil {
		return Route{}, err
	}
	action, magnitude := splitMutationAmount(amount)
	body, err := json.Marshal(mutationBody{Action: action, Amount: magnitude})
	if err != nil {
		return Route{}, err
	}
	r := newRoute("PATCH", MemberScoreEndpoint, map[string]string{
		"guild_id":  guildID.String(),
		"member_id": memberID.String(),
	})
	r.Body = body
	return r, nil
}

func routeMemberRanking(guildID, memberID Snowflake, period Period) (Route, error) {
	if !period.Valid() {
		return Route{}, fmt.Errorf("invalid period %q: must be all, month or week", string(period))
	}
	return newRoute("GET", MemberRankingEndpoint, map[string]string{
		"guild_id":  guildID.String(),
		"member_id": memberID.String(),
		"period":    string(period),
	}), nil
}

func routeGuildRankings(guildID Snowflake, period Period, offset int64) (Route, error) {
	if !period.Valid() {
		return Route{}, fmt.Errorf("invalid period %q: must be all, month or week", string(period))
	}
	if offset < 0 {
		return Route{}, fmt.Errorf("offset must be at least 0, got %d", offset)
	}
	r := newRoute("GET", GuildRankingsEndpoint, map[string]string{
		"guild_id": guildID.String(),
		"period":   string(period),
	})
	r.Query = url.Values{}
	r.Query.Set("offset", strconv.FormatInt(offset, 10))
	return r, nil
}

func routeStoreListing(listingID string) (Route, error) {
	if listingID == "" {
		return Route{}, fmt.Errorf("listing id must not be empty")
	}
	return newRoute("GET", StoreListingEndpoint, map[string]string{
		"listing_id": listingID,
	}), nil
}
