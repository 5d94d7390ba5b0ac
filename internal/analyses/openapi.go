package analyses

import (
	"maps"

	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/pkg/openapi"
)

// Tag groups the analyses operations in the API document.
const Tag = "Analyses"

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	str := &openapi.Schema{Type: "string"}
	strList := &openapi.Schema{Type: "array", Items: str}

	return map[string]*openapi.Schema{
		"Analysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"user_id":         str,
				"platform":        {Type: "string", Enum: enum(analyst.Platforms)},
				"platform_type":   {Type: "string", Enum: enum(analyst.PlatformTypes)},
				"mode":            {Type: "string", Enum: []any{"pre", "post"}},
				"post_text":       str,
				"image_mime_type": str,
				"video_mime_type": str,
				"metrics":         openapi.SchemaRef("Metrics"),
				"decision":        {Type: "string", Enum: enum(analyst.Verdicts)},
				"provider":        str,
				"model":           str,
				"result":          openapi.SchemaRef("Result"),
				"created_at":      {Type: "string", Format: "date-time"},
			},
		},
		"AnalysisOutcome": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid", Description: "Set when the analysis was saved"},
				"saved":      {Type: "boolean"},
				"save_error": str,
				"result":     openapi.SchemaRef("Result"),
				"provider":   str,
				"model":      str,
				"attempts":   {Type: "array", Items: openapi.SchemaRef("Attempt")},
			},
			Required: []string{"saved", "result", "provider", "model", "attempts"},
		},
		"AnalysisList": {
			Type:  "array",
			Items: openapi.SchemaRef("Analysis"),
		},
		"AnalysisPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Analysis")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
				"has_next":    {Type: "boolean"},
			},
		},
		"AnalysisSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":          {Type: "integer"},
				"page_size":     {Type: "integer"},
				"search":        str,
				"sort":          str,
				"decision":      str,
				"platform":      str,
				"platform_type": str,
				"mode":          str,
				"provider":      str,
				"since":         {Type: "string", Format: "date-time"},
				"until":         {Type: "string", Format: "date-time"},
			},
		},
		"Attempt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"model":     str,
				"mode":      {Type: "string", Enum: []any{"system", "inline"}},
				"succeeded": {Type: "boolean"},
				"reason":    {Type: "string", Enum: []any{"not-found", "rate-limited", "auth-failure", "timeout", "other"}},
				"message":   str,
			},
		},
		"Metrics": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"impressions":     openapi.Integer(0),
				"reach":           openapi.Integer(0),
				"likes":           openapi.Integer(0),
				"comments":        openapi.Integer(0),
				"shares":          openapi.Integer(0),
				"saves":           openapi.Integer(0),
				"engagement_rate": {Type: "number", Description: "Percent", Minimum: ptr(0.0)},
			},
		},
		"Result": {
			Type:        "object",
			Description: "rejectionReasons is present for HOLD and NO-GO; postProposal for GO and HOLD",
			Properties: map[string]*openapi.Schema{
				"qualitative":      {Type: "object"},
				"quantitative":     {Type: "object"},
				"improvements":     {Type: "object"},
				"decision":         {Type: "object"},
				"brandSafety":      {Type: "object"},
				"rejectionReasons": {Type: "object"},
				"decisionLog":      {Type: "object"},
				"nextAction":       {Type: "object"},
				"postProposal": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"textProposals":    strList,
						"creativeProposal": {Type: "object"},
					},
				},
			},
			Required: []string{
				analyst.SectionQualitative, analyst.SectionQuantitative, analyst.SectionImprovements,
				analyst.SectionDecision, analyst.SectionBrandSafety, analyst.SectionDecisionLog,
				analyst.SectionNextAction,
			},
		},
	}
}

// Paths returns the path items for the analysis endpoints, keyed by path
// relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	id := openapi.PathParam("id", "Analysis ID")
	common := map[int]*openapi.Response{
		401: openapi.ResponseRef("Unauthorized"),
		500: openapi.ResponseRef("InternalServerError"),
	}

	return map[string]*openapi.PathItem{
		"/analyses": {
			Post: &openapi.Operation{
				OperationID: "analyzePost",
				Summary:     "Analyze a post",
				Description: "Runs an analysis. Results are saved only for authenticated callers.",
				Tags:        []string{Tag},
				RequestBody: openapi.RequestBodyMultipart(analyzeForm(), true),
				Responses: with(common, map[int]*openapi.Response{
					200: openapi.ResponseJSON("Analysis outcome", "AnalysisOutcome"),
					400: openapi.ResponseRef("BadRequest"),
					413: openapi.ResponseRef("PayloadTooLarge"),
					502: openapi.ResponseRef("BadGateway"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				}),
			},
			Get: &openapi.Operation{
				OperationID: "listAnalyses",
				Summary: "List analyses",
				Tags:    []string{Tag},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("search", "string", "Search post text", false),
					openapi.QueryParam("sort", "string", "Sort fields", false),
					openapi.QueryParam("decision", "string", "GO, HOLD or NO-GO", false),
					openapi.QueryParam("platform", "string", "Platform", false),
					openapi.QueryParam("platform_type", "string", "Instagram placement", false),
					openapi.QueryParam("mode", "string", "pre or post", false),
					openapi.QueryParam("provider", "string", "Model provider", false),
					openapi.QueryParam("since", "string", "Created at or after (RFC 3339 or YYYY-MM-DD)", false),
					openapi.QueryParam("until", "string", "Created before (RFC 3339 or YYYY-MM-DD)", false),
				},
				Responses: with(common, map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of analyses", "AnalysisPage"),
				}),
			},
		},
		"/analyses/search": {
			Post: &openapi.Operation{
				OperationID: "searchAnalyses",
				Summary:     "Search analyses",
				Tags:        []string{Tag},
				RequestBody: openapi.RequestBodyJSON("AnalysisSearch", true),
				Responses: with(common, map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of analyses", "AnalysisPage"),
					400: openapi.ResponseRef("BadRequest"),
				}),
			},
		},
		"/analyses/history": {
			Get: &openapi.Operation{
				OperationID: "analysisHistory",
				Summary: "Recent analyses of the caller",
				Tags:    []string{Tag},
				Responses: with(common, map[int]*openapi.Response{
					200: openapi.ResponseJSON("Newest analyses first", "AnalysisList"),
				}),
			},
		},
		"/analyses/{id}": {
			Get: &openapi.Operation{
				OperationID: "findAnalysis",
				Summary:    "Find an analysis",
				Tags:       []string{Tag},
				Parameters: []*openapi.Parameter{id},
				Responses: with(common, map[int]*openapi.Response{
					200: openapi.ResponseJSON("Analysis", "Analysis"),
					404: openapi.ResponseRef("NotFound"),
				}),
			},
			Delete: &openapi.Operation{
				OperationID: "deleteAnalysis",
				Summary:    "Delete an analysis and its media",
				Tags:       []string{Tag},
				Parameters: []*openapi.Parameter{id},
				Responses: with(common, map[int]*openapi.Response{
					204: {Description: "Deleted"},
					404: openapi.ResponseRef("NotFound"),
				}),
			},
		},
		"/analyses/{id}/media/{kind}": {
			Get: &openapi.Operation{
				OperationID: "analysisMedia",
				Summary: "Download attached media",
				Tags:    []string{Tag},
				Parameters: []*openapi.Parameter{
					id,
					openapi.EnumParam("kind", string(MediaImage), string(MediaVideo)),
				},
				Responses: with(common, map[int]*openapi.Response{
					200: openapi.ResponseBinary("Stored media"),
					404: openapi.ResponseRef("NotFound"),
				}),
			},
		},
	}
}

func analyzeForm() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"text":            {Type: "string"},
			"platform":        {Type: "string", Enum: enum(analyst.Platforms)},
			"platform_type":   {Type: "string", Enum: enum(analyst.PlatformTypes), Description: "Required for Instagram"},
			"mode":            {Type: "string", Enum: []any{"pre", "post"}, Default: "pre"},
			"impressions":     openapi.Integer(0),
			"reach":           openapi.Integer(0),
			"likes":           openapi.Integer(0),
			"comments":        openapi.Integer(0),
			"shares":          openapi.Integer(0),
			"saves":           openapi.Integer(0),
			"engagement_rate": {Type: "number", Minimum: ptr(0.0)},
			"image":           {Type: "string", Format: "binary"},
			"video":           {Type: "string", Format: "binary"},
		},
		Required: []string{"text"},
	}
}

func with(base, extra map[int]*openapi.Response) map[int]*openapi.Response {
	out := make(map[int]*openapi.Response, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

func enum[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
