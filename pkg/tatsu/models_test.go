package tatsu

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "tatsugo/pkg/errors"
)

func TestSnowflakeDecodeStringOrNumber(t *testing.T) {
	var s Snowflake
	require.NoError(t, json.Unmarshal([]byte(`"173184118492889089"`), &s))
	assert.Equal(t, Snowflake(173184118492889089), s)

	require.NoError(t, json.Unmarshal([]byte(`1234567891`), &s))
	assert.Equal(t, Snowflake(1234567891), s)

	assert.Error(t, json.Unmarshal([]byte(`"not-an-id"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}

func TestSnowflakeEncodesAsString(t *testing.T) {
	out, err := json.Marshal(Snowflake(173184118492889089))
	require.NoError(t, err)
	assert.Equal(t, `"173184118492889089"`, string(out))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "add", ActionAdd.String())
	assert.Equal(t, "remove", ActionRemove.String())
	assert.Equal(t, "none", SubscriptionNone.String())
	assert.Equal(t, "supporter++", SubscriptionSupporter3.String())
	assert.Equal(t, "credits", CurrencyCredits.String())
	assert.Equal(t, "candy corn", CurrencyCandyCorn.String())
}

func TestPeriodValid(t *testing.T) {
	assert.True(t, PeriodAll.Valid())
	assert.True(t, PeriodMonth.Valid())
	assert.True(t, PeriodWeek.Valid())
	assert.False(t, Period("year").Valid())
	assert.False(t, Period("").Valid())
}

func TestDecodeUserProfileMinimal(t *testing.T) {
	// The documented minimal payload shape
	body := []byte(`{"id": 1234567891, "username": "Alice", "credits": 500, "reputation": 12}`)

	profile, err := DecodeUserProfile(body)
	require.NoError(t, err)
	assert.Equal(t, Snowflake(1234567891), profile.ID)
	assert.Equal(t, "Alice", profile.Username)
	assert.Equal(t, int64(500), profile.Credits)
	assert.Equal(t, int64(12), profile.Reputation)
	assert.Nil(t, profile.SubscriptionRenewal)
}

func TestDecodeUserProfileFull(t *testing.T) {
	body := []byte(`{
		"id": "173184118492889089",
		"username": "Tatsu",
		"discriminator": "0001",
		"avatar_hash": "abc123",
		"avatar_url": "https://cdn.example.com/abc123.png",
		"credits": 905000,
		"tokens": 70,
		"reputation": 347,
		"xp": 1829913,
		"info_box": "hello",
		"title": "the bot",
		"subscription_type": 2,
		"subscription_renewal": "2026-09-01T00:00:00Z",
		"some_future_field": {"ignored": true}
	}`)

	profile, err := DecodeUserProfile(body)
	require.NoError(t, err)
	assert.Equal(t, Snowflake(173184118492889089), profile.ID)
	assert.Equal(t, SubscriptionSupporter2, profile.SubscriptionType)
	require.NotNil(t, profile.SubscriptionRenewal)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), profile.SubscriptionRenewal.UTC())
	assert.Equal(t, int64(1829913), profile.XP)
}

func TestDecodeUserProfileMissingFieldNamesIt(t *testing.T) {
	body := []byte(`{"id": 1, "username": "Alice", "reputation": 12}`)

	_, err := DecodeUserProfile(body)
	require.Error(t, err)

	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "credits", derr.Field)
	assert.Equal(t, "integer", derr.Expected)
	assert.Equal(t, "missing", derr.Actual)
}

func TestDecodeUserProfileWrongTypeNamesBothTypes(t *testing.T) {
	body := []byte(`{"id": 1, "username": "Alice", "credits": "lots", "reputation": 12}`)

	_, err := DecodeUserProfile(body)
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "credits", derr.Field)
	assert.Equal(t, "integer", derr.Expected)
	assert.Equal(t, "string", derr.Actual)
}

func TestDecodeUserProfileRejectsFractionalCounter(t *testing.T) {
	body := []byte(`{"id": 1, "username": "Alice", "credits": 500.5, "reputation": 12}`)

	_, err := DecodeUserProfile(body)
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "credits", derr.Field)
}

func TestDecodeUserProfileNotAnObject(t *testing.T) {
	_, err := DecodeUserProfile([]byte(`[1, 2, 3]`))
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "object", derr.Expected)
	assert.Equal(t, "array", derr.Actual)
}

func TestDecodeGuildMemberPoints(t *testing.T) {
	body := []byte(`{"guild_id": "100", "user_id": "200", "points": 490, "rank": 3}`)

	points, err := DecodeGuildMemberPoints(body)
	require.NoError(t, err)
	assert.Equal(t, Snowflake(100), points.GuildID)
	assert.Equal(t, Snowflake(200), points.UserID)
	assert.Equal(t, int64(490), points.Points)
	assert.Equal(t, int64(3), points.Rank)
}

func TestDecodeGuildMemberPointsMutationResponse(t *testing.T) {
	// Mutation responses may carry only the new total
	points, err := DecodeGuildMemberPoints([]byte(`{"points": 490}`))
	require.NoError(t, err)
	assert.Equal(t, int64(490), points.Points)

	_, err = DecodeGuildMemberPoints([]byte(`{"rank": 3}`))
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "points", derr.Field)
}

func TestDecodeGuildMemberScore(t *testing.T) {
	score, err := DecodeGuildMemberScore([]byte(`{"guild_id": "100", "user_id": "200", "score": 12000}`))
	require.NoError(t, err)
	assert.Equal(t, int64(12000), score.Score)

	_, err = DecodeGuildMemberScore([]byte(`{"score": "high"}`))
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "score", derr.Field)
	assert.Equal(t, "string", derr.Actual)
}

func TestDecodeGuildMemberRanking(t *testing.T) {
	ranking, err := DecodeGuildMemberRanking([]byte(`{"guild_id": "100", "user_id": "200", "rank": 7, "score": 555}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), ranking.Rank)
	assert.Equal(t, int64(555), ranking.Score)
}

func TestDecodeGuildRankings(t *testing.T) {
	body := []byte(`{
		"guild_id": "173184118492889089",
		"rankings": [
			{"rank": 1, "score": 9000, "user_id": "1"},
			{"rank": 2, "score": 8000, "user_id": "2"}
		]
	}`)

	rankings, err := DecodeGuildRankings(body)
	require.NoError(t, err)
	assert.Equal(t, Snowflake(173184118492889089), rankings.GuildID)
	require.Len(t, rankings.Rankings, 2)
	assert.Equal(t, Ranking{Rank: 1, Score: 9000, UserID: 1}, rankings.Rankings[0])
}

func TestDecodeGuildRankingsEmptyPage(t *testing.T) {
	rankings, err := DecodeGuildRankings([]byte(`{"guild_id": "100", "rankings": []}`))
	require.NoError(t, err)
	assert.NotNil(t, rankings.Rankings)
	assert.Empty(t, rankings.Rankings)

	// Absent array degrades the same way
	rankings, err = DecodeGuildRankings([]byte(`{"guild_id": "100"}`))
	require.NoError(t, err)
	assert.NotNil(t, rankings.Rankings)
	assert.Empty(t, rankings.Rankings)
}

func TestDecodeGuildRankingsBadRow(t *testing.T) {
	body := []byte(`{"guild_id": "100", "rankings": [{"rank": 1, "score": 9000}]}`)

	_, err := DecodeGuildRankings(body)
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "user_id", derr.Field)
}

func TestDecodeStoreListing(t *testing.T) {
	body := []byte(`{
		"id": "furni_1x1_chair_vanity",
		"name": "Vanity Chair",
		"summary": "A chair",
		"description": "A very nice chair",
		"new": true,
		"preview": "https://cdn.example.com/chair.png",
		"prices": [{"currency": 0, "amount": 1150}, {"currency": 4, "amount": 0.99}],
		"categories": ["furniture"],
		"tags": ["chair", "vanity"]
	}`)

	listing, err := DecodeStoreListing(body)
	require.NoError(t, err)
	assert.Equal(t, "furni_1x1_chair_vanity", listing.ID)
	assert.True(t, listing.New)
	require.Len(t, listing.Prices, 2)
	assert.Equal(t, CurrencyCredits, listing.Prices[0].Currency)
	assert.Equal(t, 1150.0, listing.Prices[0].Amount)
	assert.Equal(t, CurrencyUSD, listing.Prices[1].Currency)
	assert.Equal(t, 0.99, listing.Prices[1].Amount)
}

func TestDecodeStoreListingMissingName(t *testing.T) {
	_, err := DecodeStoreListing([]byte(`{"id": "x"}`))
	var derr *apierrors.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "name", derr.Field)
}

// Round trips: encoding a decoded record and decoding it again must
// reproduce the same values

func TestUserProfileRoundTrip(t *testing.T) {
	renewal := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	original := &UserProfile{
		ID:                  173184118492889089,
		Username:            "Tatsu",
		Discriminator:       "0001",
		Credits:             905000,
		Tokens:              70,
		Reputation:          347,
		XP:                  1829913,
		SubscriptionType:    SubscriptionSupporter1,
		SubscriptionRenewal: &renewal,
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	decoded, err := DecodeUserProfile(encoded)
	require.NoError(t, err)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Username, decoded.Username)
	assert.Equal(t, original.Credits, decoded.Credits)
	assert.Equal(t, original.Tokens, decoded.Tokens)
	assert.Equal(t, original.Reputation, decoded.Reputation)
	assert.Equal(t, original.XP, decoded.XP)
	assert.Equal(t, original.SubscriptionType, decoded.SubscriptionType)
	require.NotNil(t, decoded.SubscriptionRenewal)
	assert.True(t, original.SubscriptionRenewal.Equal(*decoded.SubscriptionRenewal))
}

func TestGuildRankingsRoundTrip(t *testing.T) {
	original := &GuildRankings{
		GuildID: 100,
		Rankings: []Ranking{
			{Rank: 1, Score: 9000, UserID: 1},
			{Rank: 2, Score: 8000, UserID: 2},
		},
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	decoded, err := DecodeGuildRankings(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestGuildMemberPointsRoundTrip(t *testing.T) {
	original := &GuildMemberPoints{GuildID: 100, UserID: 200, Points: 490, Rank: 3}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	decoded, err := DecodeGuildMemberPoints(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
