package ports

import (
	"net"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"
)

// grabPort asks the kernel for a free port and keeps it occupied.
func grabPort(t *testing.T) (net.Listener, int) {
	t.Helper()

	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to get a test port: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestIsAvailable(t *testing.T) {
	ln, port := grabPort(t)

	if IsAvailable(port) {
		t.Errorf("IsAvailable(%d) = true for an occupied port", port)
	}

	ln.Close()
	if !IsAvailable(port) {
		t.Errorf("IsAvailable(%d) = false after the listener closed", port)
	}
}

func TestPIDOnPortFreePort(t *testing.T) {
	ln, port := grabPort(t)
	ln.Close()

	if pid := PIDOnPort(port); pid != 0 {
		t.Errorf("PIDOnPort(%d) = %d for a free port, want 0", port, pid)
	}
}

// Freeing a port nobody holds must succeed without a kill, so a second
// launcher run after a clean shutdown never trips over this step.
func TestFreeIdempotentOnFreePort(t *testing.T) {
	ln, port := grabPort(t)
	ln.Close()

	for i := 0; i < 2; i++ {
		killed, err := Free(port, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("Free(%d) run %d returned error: %v", port, i+1, err)
		}
		if killed {
			t.Errorf("Free(%d) run %d reported a kill on a free port", port, i+1)
		}
	}
}

// TestHoldPort is not a test on its own: TestFreeKillsPortOwner re-runs
// the test binary with HOLD_PORT set so a separate process owns the
// port under test.
func TestHoldPort(t *testing.T) {
	portStr := os.Getenv("HOLD_PORT")
	if portStr == "" {
		return
	}

	ln, err := net.Listen("tcp", ":"+portStr)
	if err != nil {
		t.Fatalf("helper failed to bind: %v", err)
	}
	defer ln.Close()

	// Held until the parent's Free kills this process.
	time.Sleep(time.Minute)
}

// An occupied port's owner is killed and the port verified free again.
func TestFreeKillsPortOwner(t *testing.T) {
	ln, port := grabPort(t)
	ln.Close()

	holder := exec.Command(os.Args[0], "-test.run=TestHoldPort$")
	holder.Env = append(os.Environ(), "HOLD_PORT="+strconv.Itoa(port))
	if err := holder.Start(); err != nil {
		t.Fatalf("failed to start port holder: %v", err)
	}
	defer holder.Wait()
	defer holder.Process.Kill()

	deadline := time.Now().Add(5 * time.Second)
	for IsAvailable(port) {
		if time.Now().After(deadline) {
			t.Fatal("port holder never bound the port")
		}
		time.Sleep(25 * time.Millisecond)
	}

	killed, err := Free(port, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Free(%d) returned error: %v", port, err)
	}
	if !killed {
		t.Errorf("Free(%d) reported killed = false with a live owner", port)
	}
	if !IsAvailable(port) {
		t.Errorf("port %d still occupied after Free()", port)
	}
}

func TestExtractPort(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    int
	}{
		{"streamlit server port", "streamlit run app.py --server.port 8503", 8503},
		{"long flag", "flask run --port 5000", 5000},
		{"long flag equals", "uvicorn app:app --port=8000", 8000},
		{"short flag", "rails server -p 3000", 3000},
		{"env var", "PORT=4000 npm start", 4000},
		{"host colon port", "gunicorn -b 0.0.0.0:9000 app:app", 9000},
		{"no port", "streamlit run app.py", 0},
		{"out of range", "serve --port 99999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPort(tt.command); got != tt.want {
				t.Errorf("ExtractPort(%q) = %d, want %d", tt.command, got, tt.want)
			}
		})
	}
}

func TestWithPort(t *testing.T) {
	tests := []struct {
		name    string
		command string
		port    int
		want    string
	}{
		{
			"appends streamlit flags",
			"streamlit run app.py",
			8503,
			"streamlit run app.py --server.port 8503 --server.address 0.0.0.0 --server.headless true",
		},
		{
			"replaces existing port and still pins the address",
			"streamlit run app.py --server.port 8501",
			8503,
			"streamlit run app.py --server.port 8503 --server.address 0.0.0.0 --server.headless true",
		},
		{
			"keeps an explicit address",
			"streamlit run app.py --server.port 8501 --server.address 127.0.0.1 --server.headless true",
			8503,
			"streamlit run app.py --server.port 8503 --server.address 127.0.0.1 --server.headless true",
		},
		{
			"appends flask flags",
			"flask run",
			5000,
			"flask run --port 5000 --host 0.0.0.0",
		},
		{
			"replaces uvicorn port and pins the host",
			"uvicorn app:app --port 8000",
			8503,
			"uvicorn app:app --port 8503 --host 0.0.0.0",
		},
		{
			"replaces short flag",
			"rails server -p 3000",
			3100,
			"rails server -p 3100",
		},
		{
			"generic fallback",
			"./serve",
			8080,
			"./serve --port 8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithPort(tt.command, tt.port); got != tt.want {
				t.Errorf("WithPort(%q, %d) = %q, want %q", tt.command, tt.port, got, tt.want)
			}
		})
	}
}

func TestWithPortThenExtractAgrees(t *testing.T) {
	commands := []string{
		"streamlit run app.py",
		"streamlit run app.py --server.port 8501",
		"flask run",
		"./serve",
	}

	for _, command := range commands {
		rewritten := WithPort(command, 8503)
		if got := ExtractPort(rewritten); got != 8503 {
			t.Errorf("ExtractPort(WithPort(%q)) = %d, want 8503", command, got)
		}
	}
}
