package shakti

import (
	"context"
	"fmt"
	"testing"

	"ratingsexporter/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeSession func(ctx context.Context, url string) ([]byte, int, error)

func (f fakeSession) Do(ctx context.Context, url string) ([]byte, int, error) {
	return f(ctx, url)
}

func serve(body string, status int) fakeSession {
	return func(context.Context, string) ([]byte, int, error) {
		return []byte(body), status, nil
	}
}

const reactContextBlob = `{"models":{"serverDefs":{"data":{"BUILD_IDENTIFIER":"v1a2b3c4"}},` +
	`"memberContext":{"data":{"userInfo":{"authURL":"1678021\x2Fabc\x3D","name":"Jason","guid":"PROFILE123"}}}}}`

var changePlanPage = fmt.Sprintf(
	`<html><head><title>Change Plan</title></head><body>`+
		`<script >window.netflix = window.netflix || {};netflix.reactContext = %s;</script><script src="app.js"></script>`+
		`</body></html>`,
	reactContextBlob,
)

func TestBootstrap(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:netflix/shakti")
	defer cleanup()

	api, err := Bootstrap(context.Background(), serve(changePlanPage, 200))
	require.NoError(t, err)
	require.Equal(t, "v1a2b3c4", api.BuildIdentifier)
	require.Equal(t, "https://www.netflix.com/api/shakti/v1a2b3c4", api.ApiRoot)
	require.Equal(t, "1678021/abc=", api.AuthURL)
	require.Equal(t, "Jason", api.ProfileName)
	require.Equal(t, "PROFILE123", api.ProfileGUID)
}

func TestBootstrapOlderUserInfoShape(t *testing.T) {
	page := `<html><body><script>netflix.reactContext = {"models":{` +
		`"serverDefs":{"data":{"BUILD_IDENTIFIER":"v9"}},` +
		`"userInfo":{"data":{"authURL":"a","name":"b","guid":"c"}}}};</script><script ></script></body></html>`

	api, err := Bootstrap(context.Background(), serve(page, 200))
	require.NoError(t, err)
	require.Equal(t, "v9", api.BuildIdentifier)
	require.Equal(t, "a", api.AuthURL)
}

func TestBootstrapBadStatus(t *testing.T) {
	_, err := Bootstrap(context.Background(), serve("<html></html>", 302))
	require.ErrorIs(t, err, ErrBadStatus)
}

func TestBootstrapNoReactContext(t *testing.T) {
	_, err := Bootstrap(context.Background(), serve("<html><body>nothing here</body></html>", 200))
	require.ErrorIs(t, err, ErrReactContextMissing)
}

func TestBootstrapMarkupDrift(t *testing.T) {
	// the `;</script><script ` seam is gone, so the marker pair fails and
	// the script scan has to take over
	page := fmt.Sprintf(
		`<html><body><script>netflix.reactContext = %s;</script></body></html>`,
		reactContextBlob,
	)

	api, err := Bootstrap(context.Background(), serve(page, 200))
	require.NoError(t, err)
	require.Equal(t, "v1a2b3c4", api.BuildIdentifier)
}

func TestBootstrapMissingKeys(t *testing.T) {
	page := `<html><body><script>netflix.reactContext = {"models":{}};</script><script ></script></body></html>`
	_, err := Bootstrap(context.Background(), serve(page, 200))
	require.ErrorIs(t, err, ErrMissingKeys)
}

func TestResolveFallsBack(t *testing.T) {
	api := Resolve(context.Background(), serve("<html></html>", 500))
	require.Equal(t, Fallback(), api)
	require.Equal(t, DefaultBuildIdentifier, api.BuildIdentifier)
	require.Equal(t, "https://www.netflix.com/api/shakti/va5e8014f", api.ApiRoot)
}
