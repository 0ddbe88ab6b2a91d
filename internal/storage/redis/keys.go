package redis

import (
	"fmt"

	"github.com/mcoot/memorygame-go/internal/model"
)

// keyspace generates Redis keys under a common prefix
type keyspace string

// gameSeq is the INCR counter that hands out game IDs
func (k keyspace) gameSeq() string {
	return fmt.Sprintf("%s:seq:game", k)
}

// gameCount counts games that were actually created
func (k keyspace) gameCount() string {
	return fmt.Sprintf("%s:count:game", k)
}

// game returns the key for a Game
func (k keyspace) game(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", k, id)
}

// moves returns the LIST of moves for a game
func (k keyspace) moves(id model.GameID) string {
	return fmt.Sprintf("%s:moves:%s", k, id)
}

// playerGames returns the LIST of game IDs for a player
func (k keyspace) playerGames(player model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_games:%s", k, player)
}

// summary returns the key for a GameSummary
func (k keyspace) summary(id string) string {
	return fmt.Sprintf("%s:summary:%s", k, id)
}

// summariesByDate returns the ZSET of all summary IDs scored by game date
func (k keyspace) summariesByDate() string {
	return fmt.Sprintf("%s:idx:summaries", k)
}

// playerSummariesByDate returns the ZSET of a user's summary IDs scored by game date
func (k keyspace) playerSummariesByDate(userID string) string {
	return fmt.Sprintf("%s:idx:player_summaries:%s", k, userID)
}
