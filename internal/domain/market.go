package domain

// MarketID identifies one of the fixed tradable markets. Each market settles
// to a quantity read off the final match state.
type MarketID string

const (
	MarketPlayer1Score MarketID = "player1_score"
	MarketPlayer2Score MarketID = "player2_score"
	MarketTeamScore    MarketID = "team_score"
	MarketWickets      MarketID = "num_wickets"
	MarketBoundaries   MarketID = "num_boundaries"
)

// Market describes a tradable market. Immutable, defined at startup.
type Market struct {
	ID       MarketID
	Name     string
	TickSize int64
	MinPrice int64
	MaxPrice int64
}

// Markets is the fixed market table.
var Markets = map[MarketID]Market{
	MarketPlayer1Score: {ID: MarketPlayer1Score, Name: "Player 1 Score", TickSize: 1, MinPrice: 0, MaxPrice: 150},
	MarketPlayer2Score: {ID: MarketPlayer2Score, Name: "Player 2 Score", TickSize: 1, MinPrice: 0, MaxPrice: 150},
	MarketTeamScore:    {ID: MarketTeamScore, Name: "Team Score", TickSize: 1, MinPrice: 0, MaxPrice: 300},
	MarketWickets:      {ID: MarketWickets, Name: "Total Wickets", TickSize: 1, MinPrice: 0, MaxPrice: 2},
	MarketBoundaries:   {ID: MarketBoundaries, Name: "Total Boundaries", TickSize: 1, MinPrice: 0, MaxPrice: 20},
}

// MarketIDs returns all market identifiers in a stable order.
func MarketIDs() []MarketID {
	return []MarketID{
		MarketPlayer1Score,
		MarketPlayer2Score,
		MarketTeamScore,
		MarketWickets,
		MarketBoundaries,
	}
}

// ValidPrice reports whether a limit price is inside the market's band.
func (m Market) ValidPrice(price int64) bool {
	return price >= m.MinPrice && price <= m.MaxPrice
}
