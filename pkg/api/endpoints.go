package api

import (
	"context"
	"fmt"
	"math"

	"github.com/hazyhaar/dergi-arsiv/pkg/catalog"
	"github.com/hazyhaar/dergi-arsiv/pkg/gamemap"
	"github.com/hazyhaar/dergi-arsiv/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

// articleView is one record shaped for clients: the normalized fields plus
// the derived score presentation and the formatted release period.
type articleView struct {
	catalog.Record
	// Score is the raw first-available score (display value).
	Score *float64 `json:"score,omitempty"`
	// NormalizedScore is the same score on the unified 0-10 scale.
	NormalizedScore *float64 `json:"normalized_score,omitempty"`
	ScoreBand       string   `json:"score_band"`
	Period          string   `json:"period,omitempty"`
	// AppID cross-references the title against the game-name mapping.
	AppID *int `json:"appid,omitempty"`
}

func toView(r catalog.Record, games *gamemap.Mapping) articleView {
	v := articleView{Record: r, ScoreBand: catalog.ScoreBand(r)}

	if s, ok := catalog.DisplayScore(r); ok {
		v.Score = &s
	}
	if s, ok := catalog.NormalizedScore(r); ok {
		v.NormalizedScore = &s
	}
	if r.Period.Year != "" {
		v.Period = catalog.FormatMonths(r.Period.Months) + " " + r.Period.Year
	}
	if games != nil && r.Section == catalog.SectionReview {
		if appid, ok := games.AppIDByTitle(r.Title); ok {
			v.AppID = &appid
		}
	}
	return v
}

func toViews(records []catalog.Record, games *gamemap.Mapping) []articleView {
	views := make([]articleView, len(records))
	for i, r := range records {
		views[i] = toView(r, games)
	}
	return views
}

type listArticlesReq struct {
	Criteria catalog.Criteria
	Limit    int
	Offset   int
}

type listArticlesResp struct {
	Total    int           `json:"total"`
	Articles []articleView `json:"articles"`
}

type issueArticlesReq struct {
	ID       int
	Criteria catalog.Criteria
}

type yearGroupView struct {
	Year  string        `json:"year"`
	Items []articleView `json:"items"`
}

type yearsResp struct {
	Years []yearGroupView `json:"years"`
}

type topAuthorsReq struct {
	Limit       int
	ReviewsOnly bool
}

type topAuthorsResp struct {
	Authors []catalog.AuthorCount `json:"authors"`
}

type filtersResp struct {
	Sections []string `json:"sections"`
	Titles   []string `json:"titles"`
	Authors  []string `json:"authors"`
	MinYear  int      `json:"min_year"`
	MaxYear  int      `json:"max_year"`
}

type statsResp struct {
	Articles           int      `json:"articles"`
	Issues             int      `json:"issues"`
	LatestIssue        int      `json:"latest_issue"`
	AverageReviewScore *float64 `json:"average_review_score,omitempty"`
	DatasetVersion     uint64   `json:"dataset_version"`
}

func listArticlesEndpoint(cat *catalog.Catalog, games *gamemap.Mapping) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*listArticlesReq)
		matched := cat.Filter(req.Criteria)
		page := paginate(matched, req.Limit, req.Offset)
		return listArticlesResp{Total: len(matched), Articles: toViews(page, games)}, nil
	}
}

// listIssuesEndpoint returns one row per physical issue: the filtered set
// deduplicated by issue id, first-seen record per issue.
func listIssuesEndpoint(cat *catalog.Catalog, games *gamemap.Mapping) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*listArticlesReq)
		issues := catalog.DedupeByIssue(cat.Filter(req.Criteria))
		page := paginate(issues, req.Limit, req.Offset)
		return listArticlesResp{Total: len(issues), Articles: toViews(page, games)}, nil
	}
}

func issueArticlesEndpoint(cat *catalog.Catalog, games *gamemap.Mapping) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*issueArticlesReq)
		if req.ID < 1 {
			return nil, fmt.Errorf("invalid issue id %d", req.ID)
		}
		items := catalog.FilterByIssue(cat.Records(), req.Criteria, req.ID)
		return listArticlesResp{Total: len(items), Articles: toViews(items, games)}, nil
	}
}

func yearsEndpoint(cat *catalog.Catalog, games *gamemap.Mapping) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*listArticlesReq)
		groups := catalog.GroupByYear(cat.Filter(req.Criteria))
		views := make([]yearGroupView, len(groups))
		for i, g := range groups {
			views[i] = yearGroupView{Year: g.Year, Items: toViews(g.Items, games)}
		}
		return yearsResp{Years: views}, nil
	}
}

func topAuthorsEndpoint(cat *catalog.Catalog) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*topAuthorsReq)
		if req.Limit > 100 {
			return nil, fmt.Errorf("limit too large (max 100, got %d)", req.Limit)
		}
		return topAuthorsResp{Authors: catalog.TopAuthors(cat.Records(), req.Limit, req.ReviewsOnly)}, nil
	}
}

func filtersEndpoint(cat *catalog.Catalog) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		min, max := cat.YearBounds()
		return filtersResp{
			Sections: cat.Sections(),
			Titles:   cat.Titles(),
			Authors:  cat.Authors(),
			MinYear:  min,
			MaxYear:  max,
		}, nil
	}
}

func statsEndpoint(cat *catalog.Catalog) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		records := cat.Records()
		resp := statsResp{
			Articles:       len(records),
			Issues:         len(catalog.DedupeByIssue(records)),
			LatestIssue:    catalog.LatestIssue(records),
			DatasetVersion: cat.Version(),
		}

		reviews := catalog.Filter(records, catalog.Criteria{Sections: []string{catalog.SectionReview}})
		if avg, ok := catalog.AverageScore(reviews); ok {
			rounded := math.Round(avg*10) / 10
			resp.AverageReviewScore = &rounded
		}
		return resp, nil
	}
}

func paginate(records []catalog.Record, limit, offset int) []catalog.Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
