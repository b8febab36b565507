package ports

import (
	"fmt"
	"net"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// IsAvailable reports whether the port can be bound.
func IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// PIDOnPort returns the PID of the process listening on the given port,
// or 0 when no owner can be found.
func PIDOnPort(port int) int {
	conns, err := gnet.Connections("tcp")
	if err == nil {
		for _, c := range conns {
			if c.Status == "LISTEN" && int(c.Laddr.Port) == port && c.Pid > 0 {
				return int(c.Pid)
			}
		}
	} else {
		log.Debug("connection scan failed", "error", err)
	}

	// The scan cannot always map sockets to owners without privileges;
	// fall back to the system tools.
	return pidFromSystemTools(port)
}

// pidFromSystemTools shells out to lsof (or netstat on Windows) as a
// fallback PID lookup.
func pidFromSystemTools(port int) int {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin", "linux":
		cmd = exec.Command("lsof", "-ti", fmt.Sprintf(":%d", port), "-sTCP:LISTEN")
	case "windows":
		cmd = exec.Command("cmd", "/C", fmt.Sprintf("netstat -ano | findstr :%d | findstr LISTENING", port))
	default:
		return 0
	}

	output, err := cmd.Output()
	if err != nil {
		return 0
	}

	pidStr := strings.TrimSpace(string(output))
	if pidStr == "" {
		return 0
	}

	if runtime.GOOS == "windows" {
		// The PID is the last column of the netstat line.
		fields := strings.Fields(pidStr)
		pidStr = fields[len(fields)-1]
	} else {
		// lsof may report several lines; the first is enough.
		pidStr = strings.TrimSpace(strings.Split(pidStr, "\n")[0])
	}

	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return 0
	}
	return pid
}

// Free makes sure no pre-existing process is listening on the port. When
// an owner is found it is killed forcefully, and after a short pause the
// port is queried once more; a port still held then is a hard failure.
// A port with no identifiable owner passes straight through.
func Free(port int, wait time.Duration) (killed bool, err error) {
	pid := PIDOnPort(port)
	if pid == 0 {
		return false, nil
	}

	log.Debug("killing port owner", "port", port, "pid", pid)
	if err := kill(pid); err != nil {
		log.Debug("kill failed", "pid", pid, "error", err)
	}

	time.Sleep(wait)

	if again := PIDOnPort(port); again != 0 {
		return true, fmt.Errorf("port %d is still held by PID %d after kill", port, again)
	}
	return true, nil
}

// kill sends a forceful termination signal to the process.
func kill(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Kill()
}

// Port flag patterns recognized in run commands.
var portPatterns = []*regexp.Regexp{
	// streamlit run app.py --server.port 8503
	regexp.MustCompile(`--server\.port[=\s](\d+)`),
	// --port 8000, --port=8000, -p 8000
	regexp.MustCompile(`(?:--port[=\s]|-p[=\s])(\d+)`),
	// PORT=8000
	regexp.MustCompile(`PORT=(\d+)`),
	// localhost:8000, 0.0.0.0:8000
	regexp.MustCompile(`(?:localhost|0\.0\.0\.0|127\.0\.0\.1):(\d+)`),
}

// ExtractPort returns the port a run command already names, or 0.
func ExtractPort(command string) int {
	for _, pattern := range portPatterns {
		matches := pattern.FindStringSubmatch(command)
		if len(matches) < 2 {
			continue
		}
		port, err := strconv.Atoi(matches[1])
		if err == nil && port > 0 && port < 65536 {
			return port
		}
	}
	return 0
}

// WithPort returns the command rewritten to listen on the given port on
// all interfaces. A port already named in the command is replaced;
// otherwise the appropriate flag for the framework is appended. Either
// way the bind address is pinned unless the command already names one.
func WithPort(command string, port int) string {
	portStr := strconv.Itoa(port)

	replaced := false
	for _, pattern := range portPatterns {
		loc := pattern.FindStringSubmatchIndex(command)
		if loc == nil {
			continue
		}
		command = command[:loc[2]] + portStr + command[loc[3]:]
		replaced = true
		break
	}

	if !replaced {
		switch {
		case strings.Contains(command, "streamlit"):
			command += " --server.port " + portStr
		default:
			command += " --port " + portStr
		}
	}

	return withAddress(command)
}

// withAddress makes the known frameworks bind all interfaces, so the
// network URL in the summary actually works.
func withAddress(command string) string {
	switch {
	case strings.Contains(command, "streamlit"):
		if !strings.Contains(command, "--server.address") {
			command += " --server.address 0.0.0.0"
		}
		// headless stops streamlit from racing us to open the browser
		if !strings.Contains(command, "--server.headless") {
			command += " --server.headless true"
		}
	case strings.Contains(command, "flask"), strings.Contains(command, "uvicorn"):
		if !strings.Contains(command, "--host") {
			command += " --host 0.0.0.0"
		}
	}
	return command
}

// LanIP returns the machine's primary outbound IPv4 address for building
// the network-reachable URL, or "" when it cannot be determined.
func LanIP() string {
	// Routing lookup only, no packet is sent.
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}
