package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cowsbulls-go/internal/api"
	"github.com/mcoot/cowsbulls-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath   string
	serverURL    string
	identityFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "cbgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/cbgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Each runner keeps its own identity file, acting as its own player
	identityFile := filepath.Join(t.TempDir(), "identity.json")

	return &cliRunner{
		binaryPath:   binaryPath,
		serverURL:    serverURL,
		identityFile: identityFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--identity-file", r.identityFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		Broadcaster:       app.Broadcaster,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type sessionView struct {
	Code            string  `json:"code"`
	Phase           string  `json:"phase"`
	DigitLength     int     `json:"digit_length"`
	CurrentPlayerID *string `json:"current_player_id"`
	Players         []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Ready   bool   `json:"ready"`
		Active  bool   `json:"active"`
		Guesses []struct {
			Value          string `json:"value"`
			ExactMatches   int    `json:"exact_matches"`
			PartialMatches int    `json:"partial_matches"`
		} `json:"guesses"`
	} `json:"players"`
	Winner     *string `json:"winner"`
	SecretCode string  `json:"secret_code"`
}

type joinedResponse struct {
	Session  sessionView `json:"session"`
	PlayerID string      `json:"player_id"`
}

type guessResponse struct {
	Guess struct {
		Value          string `json:"value"`
		ExactMatches   int    `json:"exact_matches"`
		PartialMatches int    `json:"partial_matches"`
	} `json:"guess"`
	Winning bool        `json:"winning"`
	Session sessionView `json:"session"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_SessionCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a session
	output, err := cli.run("session", "create", "Alice", "--digits", "5")
	require.NoError(t, err, "output: %s", output)

	var created joinedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "lobby", created.Session.Phase)
	assert.Equal(t, 5, created.Session.DigitLength)
	assert.NotEmpty(t, created.PlayerID)
	require.Len(t, created.Session.Players, 1)
	assert.Equal(t, "Alice", created.Session.Players[0].Name)
	code := created.Session.Code

	// Get session state (no identity needed)
	output, err = cli.run("session", "get", code)
	require.NoError(t, err, "output: %s", output)

	var got sessionView
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, code, got.Code)
	// The secret never leaks before the game is over
	assert.Empty(t, got.SecretCode)

	// Joining again with the remembered id converges on the same seat
	output, err = cli.run("session", "join", code)
	require.NoError(t, err, "output: %s", output)

	var rejoined joinedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rejoined))
	assert.Equal(t, created.PlayerID, rejoined.PlayerID)
	assert.Len(t, rejoined.Session.Players, 1)

	// Exit clears the remembered id
	output, err = cli.run("session", "exit", code)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Exited session")

	// With the id forgotten a nameless join is rejected
	output, err = cli.run("session", "join", code)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "name")
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	// Two CLI runners with separate identity files act as two players
	alice := newCLIRunner(t, ts.addr)
	bob := &cliRunner{
		binaryPath:   alice.binaryPath,
		serverURL:    alice.serverURL,
		identityFile: filepath.Join(t.TempDir(), "identity2.json"),
	}

	// Alice creates a session
	output, err := alice.run("session", "create", "Alice")
	require.NoError(t, err, "output: %s", output)
	var created joinedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	code := created.Session.Code
	t.Logf("Created session: %s", code)

	// Bob joins
	output, err = bob.run("session", "join", code, "Bob")
	require.NoError(t, err, "output: %s", output)
	var joined joinedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &joined))
	assert.Len(t, joined.Session.Players, 2)

	// Both ready up; the second ready starts the game
	output, err = alice.run("game", "ready", code)
	require.NoError(t, err, "output: %s", output)
	var state sessionView
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "lobby", state.Phase)

	output, err = bob.run("game", "ready", code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "in_progress", state.Phase)
	t.Logf("Game started")

	// Guessing out of turn is rejected
	output, err = bob.run("game", "guess", code, "0123")
	assert.Error(t, err, "out-of-turn guess should fail")
	assert.Contains(t, strings.ToLower(output), "turn")

	// Alice probes digits in two halves, then solves from the feedback.
	// Secrets have no repeated digits so the counts pin the search down,
	// but the test only plays until someone happens to win or we give up.
	probes := []string{"0123", "4567", "0123", "4567"}
	turn := 0
	runners := []*cliRunner{alice, bob}
	for i := 0; i < 40; i++ {
		guesser := runners[turn%2]
		guess := probes[i%len(probes)]

		output, err = guesser.run("game", "guess", code, guess)
		require.NoError(t, err, "guess %d: %s", i, output)

		var result guessResponse
		require.NoError(t, json.Unmarshal([]byte(output), &result))
		assert.Equal(t, guess, result.Guess.Value)
		turn++

		if result.Winning {
			require.NotNil(t, result.Session.Winner)
			assert.Equal(t, "finished", result.Session.Phase)
			// The secret is revealed once there is a winner
			assert.Equal(t, guess, result.Session.SecretCode)
			break
		}
	}

	// Whatever happened above, a reset returns the session to the lobby
	output, err = alice.run("game", "reset", code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "lobby", state.Phase)
	assert.Nil(t, state.Winner)
	for _, p := range state.Players {
		assert.Empty(t, p.Guesses)
		assert.False(t, p.Ready)
	}
	t.Logf("Session reset to lobby")
}

func TestCLI_RemovePlayer(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := newCLIRunner(t, ts.addr)
	bob := &cliRunner{
		binaryPath:   alice.binaryPath,
		serverURL:    alice.serverURL,
		identityFile: filepath.Join(t.TempDir(), "identity2.json"),
	}

	output, err := alice.run("session", "create", "Alice")
	require.NoError(t, err)
	var created joinedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	code := created.Session.Code

	output, err = bob.run("session", "join", code, "Bob")
	require.NoError(t, err)
	var joined joinedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &joined))

	// Alice cannot remove herself
	output, err = alice.run("game", "remove", code, created.PlayerID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "remove")

	// Alice removes Bob
	output, err = alice.run("game", "remove", code, joined.PlayerID)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Removed player")

	output, err = alice.run("session", "get", code)
	require.NoError(t, err)
	var state sessionView
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Len(t, state.Players, 1)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Mutations without a remembered id fail locally
	output, err := cli.run("game", "ready", "nosuch")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "no player id remembered")

	// Get non-existent session
	output, err = cli.run("session", "get", "nosuch")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Creating a session with a bad digit length is rejected
	output, err = cli.run("session", "create", "Alice", "--digits", "9")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "digit")
}
