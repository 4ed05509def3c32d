package api

import (
	"strings"

	"github.com/hazyhaar/dergi-arsiv/pkg/catalog"
	"github.com/hazyhaar/dergi-arsiv/pkg/gamemap"
	"github.com/hazyhaar/dergi-arsiv/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the three catalog MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, cat *catalog.Catalog, games *gamemap.Mapping) {
	registerSearchArticles(srv, cat, games)
	registerTopAuthors(srv, cat)
	registerCatalogStats(srv, cat)
}

func registerSearchArticles(srv *server.MCPServer, cat *catalog.Catalog, games *gamemap.Mapping) {
	tool := mcp.NewTool("search_articles",
		mcp.WithDescription("Search the magazine article index by section, title, author, year range and score range. Returns matching articles with their issue, release period and score."),
		mcp.WithString("sections", mcp.Description("Comma-separated section filter (e.g. İnceleme,Dosya)")),
		mcp.WithString("title", mcp.Description("Substring match on the article title, Turkish-locale case-insensitive")),
		mcp.WithString("author", mcp.Description("Substring match on any author name")),
		mcp.WithNumber("year_min", mcp.Description("Earliest publication year, inclusive")),
		mcp.WithNumber("year_max", mcp.Description("Latest publication year, inclusive")),
		mcp.WithNumber("score_min", mcp.Description("Lowest score on the unified 0-10 scale, inclusive")),
		mcp.WithNumber("score_max", mcp.Description("Highest score on the unified 0-10 scale, inclusive")),
		mcp.WithBoolean("exclude_reviews", mcp.Description("Drop review-section articles from the results")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of articles to return (default 50)")),
	)

	kit.RegisterMCPTool(srv, tool, listArticlesEndpoint(cat, games), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &listArticlesReq{Limit: 50}

		if v, _ := args["sections"].(string); v != "" {
			r.Criteria.Sections = strings.Split(v, ",")
		}
		r.Criteria.Title, _ = args["title"].(string)
		r.Criteria.Author, _ = args["author"].(string)
		r.Criteria.ExcludeReviews, _ = args["exclude_reviews"].(bool)

		yearMin := intArg(args, "year_min")
		yearMax := intArg(args, "year_max")
		if yearMin != 0 || yearMax != 0 {
			if yearMax == 0 {
				yearMax = 9999
			}
			r.Criteria.YearRange = [2]int{yearMin, yearMax}
		}

		_, hasMin := args["score_min"]
		_, hasMax := args["score_max"]
		if hasMin || hasMax {
			min, max := catalog.ScoreScaleMin, catalog.ScoreScaleMax
			if v, ok := args["score_min"].(float64); ok {
				min = v
			}
			if v, ok := args["score_max"].(float64); ok {
				max = v
			}
			r.Criteria.ScoreRange = [2]float64{min, max}
			r.Criteria.ScoreRangeSet = true
		}

		if n := intArg(args, "limit"); n > 0 {
			r.Limit = n
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerTopAuthors(srv *server.MCPServer, cat *catalog.Catalog) {
	tool := mcp.NewTool("top_authors",
		mcp.WithDescription("List the most prolific authors in the article index, optionally counting review articles only."),
		mcp.WithNumber("limit", mcp.Description("Number of authors to return (default 10, max 100)")),
		mcp.WithBoolean("reviews_only", mcp.Description("Count only review-section articles")),
	)

	kit.RegisterMCPTool(srv, tool, topAuthorsEndpoint(cat), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &topAuthorsReq{Limit: intArg(args, "limit")}
		r.ReviewsOnly, _ = args["reviews_only"].(bool)
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

func registerCatalogStats(srv *server.MCPServer, cat *catalog.Catalog) {
	tool := mcp.NewTool("catalog_stats",
		mcp.WithDescription("Summary statistics for the article index: article and issue counts, latest issue, average review score."),
	)

	kit.RegisterMCPTool(srv, tool, statsEndpoint(cat), func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

// intArg reads a numeric MCP argument. JSON numbers decode as float64.
func intArg(args map[string]any, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}
