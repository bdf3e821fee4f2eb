// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/feedrank/internal/database/query"
	"github.com/tomtom215/feedrank/internal/models"
)

// DefaultAdCandidates bounds the auction slate when FeedParams leaves it unset.
const DefaultAdCandidates = 50

// DefaultRepostWindow bounds repost age when FeedParams leaves it unset.
const DefaultRepostWindow = 7 * 24 * time.Hour

// FeedParams carries everything one feed request needs from the store.
type FeedParams struct {
	UserID string

	// Interests is the user's topic profile, group id to weight.
	Interests map[string]float64

	Now    time.Time
	Limit  int
	Offset int

	IgnoreContractIDs  []string
	BlockedCreatorIDs  []string
	BlockedContractIDs []string
	BlockedGroupSlugs  []string

	AdCandidates int
	RepostWindow time.Duration
}

func (p *FeedParams) adCandidates() int {
	if p.AdCandidates <= 0 {
		return DefaultAdCandidates
	}
	return p.AdCandidates
}

func (p *FeedParams) repostWindow() time.Duration {
	if p.RepostWindow <= 0 {
		return DefaultRepostWindow
	}
	return p.RepostWindow
}

// Candidates runs one retrieval shape.
//
// Topic-joined shapes return nothing without touching the store when the
// profile is empty, since the interest join would match no rows.
func (db *DB) Candidates(ctx context.Context, shape models.Shape, p FeedParams) ([]models.Candidate, error) {
	if shape == models.ShapeReposts {
		return db.repostCandidates(ctx, &p)
	}
	if len(p.Interests) == 0 {
		return []models.Candidate{}, nil
	}

	sb, err := buildTopicShape(shape, &p)
	if err != nil {
		return nil, err
	}
	sqlText, args := sb.Build()

	var out []models.Candidate
	err = db.guard("SELECT", "contracts:"+string(shape), func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		out = out[:0]
		for rows.Next() {
			cand, err := scanTopicCandidate(rows, shape == models.ShapeSponsored)
			if err != nil {
				return err
			}
			out = append(out, cand)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s candidates: %w", shape, err)
	}
	if out == nil {
		out = []models.Candidate{}
	}
	return out, nil
}

// buildTopicShape assembles one of the five topic-joined shapes.
func buildTopicShape(shape models.Shape, p *FeedParams) (*query.SelectBuilder, error) {
	sb := query.NewSelect(contractColumns...).
		Columns("uti.score AS topic_score").
		From(interestSource(p.Interests))
	for _, j := range topicJoins() {
		sb.Join(j)
	}

	if shape.IsDiscovery() {
		sb.LeftJoin(latestViewJoin(p.UserID))
	}

	switch shape {
	case models.ShapeConversion:
		sb.OrderBy("uti.score * c.conversion_score DESC")
	case models.ShapeImportance:
		sb.OrderBy("uti.score * c.importance_score DESC")
	case models.ShapeFreshness:
		sb.OrderBy("uti.score * c.freshness_score DESC")
	case models.ShapeFollowed:
		sb.Where(followedCreator(p.UserID))
		sb.OrderBy("c.conversion_score DESC")
	case models.ShapeSponsored:
		ads := adSlate(p.UserID, p.Now, p.adCandidates()).Fragment()
		sb.Columns("ma.id AS ad_id")
		sb.Join(query.Frag("("+ads.SQL+") ma ON ma.market_id = c.id", ads.Args...))
		sb.OrderBy("uti.score * c.conversion_score * ma.cost_per_view DESC")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}

	sb.Where(baseFilter(p)...)
	if shape.IsDiscovery() {
		sb.Where(notYetViewed())
	}

	return sb.OrderBy("c.id").Limit(p.Limit, p.Offset), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func contractDest(c *models.Contract) []interface{} {
	return []interface{}{
		&c.ID, &c.Slug, &c.Question, &c.CreatorID, &c.Visibility,
		&c.CreatedTime, &c.CloseTime, &c.ViewCount,
		&c.ConversionScore, &c.ImportanceScore, &c.FreshnessScore,
	}
}

func scanTopicCandidate(rows rowScanner, withAd bool) (models.Candidate, error) {
	var cand models.Candidate
	dest := append(contractDest(&cand.Contract), &cand.TopicScore)
	if withAd {
		dest = append(dest, &cand.AdID)
	}
	if err := rows.Scan(dest...); err != nil {
		return models.Candidate{}, fmt.Errorf("failed to scan candidate: %w", err)
	}
	return cand, nil
}

// buildRepostShape selects reposts by followed users whose contract the user
// has not seen since the repost was made.
func buildRepostShape(p *FeedParams) *query.SelectBuilder {
	now := p.Now.UTC()

	sb := query.NewSelect(contractColumns...).
		Columns(
			"p.id", "p.user_id", "p.contract_id", "p.contract_comment_id", "p.bet_id", "p.created_time",
			"cc.comment_id", "cc.user_id", "cc.content", "cc.bet_id", "cc.likes", "cc.created_time",
			"cb.bet_id", "cb.user_id", "cb.outcome", "cb.amount", "cb.created_time",
		).
		From(query.Frag("posts p")).
		Join(query.Frag("user_follows uf ON uf.follow_id = p.user_id AND uf.user_id = ?", p.UserID)).
		Join(query.Frag("contracts c ON c.id = p.contract_id")).
		LeftJoin(query.Frag("contract_comments cc ON cc.comment_id = p.contract_comment_id")).
		LeftJoin(query.Frag("contract_bets cb ON cb.bet_id = COALESCE(p.bet_id, cc.bet_id)")).
		LeftJoin(query.Frag("user_contract_views ucv ON ucv.contract_id = c.id AND ucv.user_id = ?", p.UserID)).
		Where(query.Frag(`p.created_time > GREATEST(
			COALESCE(ucv.last_card_view_ts, `+epochLiteral+`),
			COALESCE(ucv.last_promoted_view_ts, `+epochLiteral+`),
			COALESCE(ucv.last_page_view_ts, `+epochLiteral+`))`)).
		Where(query.Frag("p.created_time > ?", now.Add(-p.repostWindow()))).
		Where(exclusionFilter(p)...)

	return sb.OrderBy("p.created_time DESC", "p.id").Limit(p.Limit, p.Offset)
}

func (db *DB) repostCandidates(ctx context.Context, p *FeedParams) ([]models.Candidate, error) {
	sqlText, args := buildRepostShape(p).Build()

	var out []models.Candidate
	err := db.guard("SELECT", "posts", func() error {
		qctx, cancel := db.queryContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		out = out[:0]
		for rows.Next() {
			cand, err := scanRepostCandidate(rows, p.Now)
			if err != nil {
				return err
			}
			out = append(out, cand)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query repost candidates: %w", err)
	}
	if out == nil {
		out = []models.Candidate{}
	}
	return out, nil
}

func scanRepostCandidate(rows rowScanner, now time.Time) (models.Candidate, error) {
	var (
		cand   models.Candidate
		repost models.Repost

		postCommentID, postBetID sql.NullString

		commentID, commentUser, commentText, commentBet sql.NullString
		commentLikes                                    sql.NullInt64
		commentTime                                     sql.NullTime

		betID, betUser, betOutcome sql.NullString
		betAmount                  sql.NullFloat64
		betTime                    sql.NullTime
	)

	dest := append(contractDest(&cand.Contract),
		&repost.ID, &repost.UserID, &repost.ContractID, &postCommentID, &postBetID, &repost.CreatedTime,
		&commentID, &commentUser, &commentText, &commentBet, &commentLikes, &commentTime,
		&betID, &betUser, &betOutcome, &betAmount, &betTime,
	)
	if err := rows.Scan(dest...); err != nil {
		return models.Candidate{}, fmt.Errorf("failed to scan repost: %w", err)
	}

	repost.CommentID = postCommentID.String
	repost.BetID = postBetID.String
	cand.Repost = &repost

	if commentID.Valid {
		cand.Comment = &models.Comment{
			ID:          commentID.String,
			ContractID:  cand.Contract.ID,
			UserID:      commentUser.String,
			Text:        commentText.String,
			BetID:       commentBet.String,
			Likes:       commentLikes.Int64,
			CreatedTime: commentTime.Time,
		}
	}
	if betID.Valid {
		cand.Bet = &models.Bet{
			ID:          betID.String,
			ContractID:  cand.Contract.ID,
			UserID:      betUser.String,
			Outcome:     betOutcome.String,
			Amount:      betAmount.Float64,
			CreatedTime: betTime.Time,
		}
	}

	applyRepostDecay(&cand, now)
	return cand, nil
}

// applyRepostDecay rescales importance and freshness by the repost's age in
// whole days (at least one) and pins the topic weight to 1. Conversion is kept.
func applyRepostDecay(cand *models.Candidate, now time.Time) {
	days := math.Max(math.Round(now.Sub(cand.Repost.CreatedTime).Hours()/24), 1)

	var likes float64
	if cand.Comment != nil {
		likes = float64(cand.Comment.Likes)
	}

	cand.Contract.ImportanceScore = (cand.Contract.ImportanceScore + likes) / days
	cand.Contract.FreshnessScore = (cand.Contract.FreshnessScore + 1) / days
	cand.TopicScore = 1
}
