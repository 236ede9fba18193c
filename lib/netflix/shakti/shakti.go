// Package shakti resolves the versioned backend API ("Shakti") that serves
// the rating history. Netflix does not document it; the version string and
// per-profile auth URL have to be scraped out of a JSON blob embedded in an
// authenticated HTML page.
package shakti

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ratingsexporter/lib/htmlutil"
	"ratingsexporter/lib/netflix/session"
	"ratingsexporter/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("netflix/shakti")

// DefaultBuildIdentifier is a hand-pinned Shakti version known to serve the
// rating history. It goes stale whenever Netflix redeploys, so a live
// bootstrap is always preferred.
const DefaultBuildIdentifier = "va5e8014f"

// The change-plan page is fetched for bootstrapping because it is cheap and
// always embeds the global react state object.
const changePlanURL = "https://www.netflix.com/ChangePlan"

const apiRootFormat = "https://www.netflix.com/api/shakti/%s"

// Markers delimiting the react context JSON inside the page HTML. This is a
// presentation-coupled extraction: any upstream markup change breaks it.
const (
	jsonStartMarker = "netflix.reactContext = "
	jsonEndMarker   = ";</script><script "
)

var (
	ErrBadStatus           = errors.New("account settings page returned a non-200 status")
	ErrReactContextMissing = errors.New("react context not found in page html")
	ErrMissingKeys         = errors.New("react context is missing required keys")
)

// ApiContext carries everything subsequent API calls need. It is produced
// once per authenticated session and read-only afterward.
type ApiContext struct {
	// ApiRoot is the versioned base URL of the Shakti API.
	ApiRoot string
	// BuildIdentifier is the deployed Shakti version on Netflix's back end.
	BuildIdentifier string
	// AuthURL authenticates mutating calls for the active profile.
	AuthURL     string
	ProfileName string
	ProfileGUID string
}

// Fallback returns a context pinned to DefaultBuildIdentifier. It can fetch
// ratings but carries no auth URL or profile info.
func Fallback() ApiContext {
	return ApiContext{
		ApiRoot:         fmt.Sprintf(apiRootFormat, DefaultBuildIdentifier),
		BuildIdentifier: DefaultBuildIdentifier,
	}
}

// Bootstrap fetches the change-plan page through an authenticated session
// and scrapes the live ApiContext out of it.
func Bootstrap(ctx context.Context, s session.Session) (ApiContext, error) {
	ctx, span := tracer.Start(ctx, "Bootstrap")
	defer span.End()

	body, status, err := s.Do(ctx, changePlanURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch account settings page")
		return ApiContext{}, err
	}
	if status != 200 {
		span.SetStatus(codes.Error, "bad status")
		return ApiContext{}, fmt.Errorf("%w: %d", ErrBadStatus, status)
	}

	blob, err := extractReactContext(string(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract react context")
		return ApiContext{}, err
	}

	var reactContext map[string]any
	err = json.Unmarshal([]byte(textutil.DecodeHexEscapes(blob)), &reactContext)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse react context json")
		return ApiContext{}, fmt.Errorf("parse react context: %w", err)
	}

	api, err := contextFromReactContext(reactContext)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "react context missing required keys")
		return ApiContext{}, err
	}

	slog.DebugContext(
		ctx, "resolved shakti",
		"build_identifier", api.BuildIdentifier,
		"profile", api.ProfileName,
	)
	return api, nil
}

// Resolve is Bootstrap with the fallback policy applied: when the live
// bootstrap fails, rating fetches proceed against the hand-pinned API
// version rather than stopping the world.
func Resolve(ctx context.Context, s session.Session) ApiContext {
	api, err := Bootstrap(ctx, s)
	if err != nil {
		slog.WarnContext(ctx, "bootstrap failed, falling back to pinned api version", "err", err)
		return Fallback()
	}
	return api
}

// extractReactContext pulls the JSON blob out of the page HTML. The marker
// pair is tried first; if the markup around the blob drifted, every script
// element is scanned for the assignment instead.
func extractReactContext(html string) (string, error) {
	start := strings.Index(html, jsonStartMarker)
	if start >= 0 {
		rest := html[start+len(jsonStartMarker):]
		end := strings.Index(rest, jsonEndMarker)
		if end >= 0 {
			return rest[:end], nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse page html: %w", err)
	}
	for _, node := range doc.Find("script").Nodes {
		text := htmlutil.GetText(node)
		idx := strings.Index(text, jsonStartMarker)
		if idx < 0 {
			continue
		}
		blob := strings.TrimSpace(text[idx+len(jsonStartMarker):])
		blob = strings.TrimSuffix(blob, ";")
		if blob != "" {
			return blob, nil
		}
	}
	return "", ErrReactContextMissing
}

func dig(root map[string]any, path ...string) (any, bool) {
	var current any = root
	for _, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func digString(root map[string]any, path ...string) (string, bool) {
	value, ok := dig(root, path...)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

func contextFromReactContext(reactContext map[string]any) (ApiContext, error) {
	build, ok := digString(reactContext, "models", "serverDefs", "data", "BUILD_IDENTIFIER")
	if !ok {
		return ApiContext{}, fmt.Errorf("%w: BUILD_IDENTIFIER", ErrMissingKeys)
	}

	// the user info object moved between API generations
	userInfo, ok := dig(reactContext, "models", "memberContext", "data", "userInfo")
	if !ok {
		userInfo, ok = dig(reactContext, "models", "userInfo", "data")
	}
	info, isObject := userInfo.(map[string]any)
	if !ok || !isObject {
		return ApiContext{}, fmt.Errorf("%w: userInfo", ErrMissingKeys)
	}

	authURL, ok := info["authURL"].(string)
	if !ok {
		return ApiContext{}, fmt.Errorf("%w: authURL", ErrMissingKeys)
	}
	name, ok := info["name"].(string)
	if !ok {
		return ApiContext{}, fmt.Errorf("%w: name", ErrMissingKeys)
	}
	guid, ok := info["guid"].(string)
	if !ok {
		return ApiContext{}, fmt.Errorf("%w: guid", ErrMissingKeys)
	}

	return ApiContext{
		ApiRoot:         fmt.Sprintf(apiRootFormat, build),
		BuildIdentifier: build,
		AuthURL:         authURL,
		ProfileName:     name,
		ProfileGUID:     guid,
	}, nil
}
