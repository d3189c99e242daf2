package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kerem/aide/internal/models"
)

// installCommands maps commonly missing binaries to their install commands.
var installCommands = map[string]string{
	"python": "sudo apt-get install python3",
	"pip":    "sudo apt-get install python3-pip",
	"node":   "sudo apt-get install nodejs",
	"npm":    "sudo apt-get install npm",
	"java":   "sudo apt-get install default-jre",
	"git":    "sudo apt-get install git",
	"docker": "sudo apt-get install docker.io",
	"wget":   "sudo apt-get install wget",
	"curl":   "sudo apt-get install curl",
	"gcc":    "sudo apt-get install build-essential",
	"make":   "sudo apt-get install build-essential",
}

// commonCommands is the fixed list used for typo correction.
var commonCommands = []string{"ls", "cd", "mkdir", "rm", "cp", "mv", "cat", "grep", "find", "echo", "touch"}

var (
	packageNamePattern = regexp.MustCompile(`(?i)package ['"]?([^'"\s]+)['"]? not found`)
	moduleNamePattern  = regexp.MustCompile(`(?i)module ['"]?([^'"\s]+)['"]? not found`)
	hostPortPattern    = regexp.MustCompile(`https?://([^:/\s]+)(?::(\d+))?`)
)

func commandName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return fields[0]
}

func handleCommandNotFound(command, errorText string) *models.Diagnosis {
	name := commandName(command)
	d := &models.Diagnosis{
		ErrorType: ErrCommandNotFound,
		Suggestions: []string{
			fmt.Sprintf("The command '%s' was not found. Check if it's installed.", name),
			"Make sure the command name is spelled correctly.",
		},
	}

	install, ok := installCommands[name]
	if !ok {
		install = "sudo apt-get install " + name
	}
	d.Suggestions = append(d.Suggestions, "Try installing it with: "+install)
	d.AlternativeCommands = append(d.AlternativeCommands, install)

	for _, known := range commonCommands {
		if levenshtein(name, known) <= 2 {
			d.Suggestions = append(d.Suggestions, fmt.Sprintf("Did you mean '%s' instead of '%s'?", known, name))
			d.AlternativeCommands = append(d.AlternativeCommands, strings.Replace(command, name, known, 1))
			break
		}
	}
	return d
}

func handlePermissionDenied(command, errorText string) *models.Diagnosis {
	d := &models.Diagnosis{
		ErrorType: ErrPermission,
		Suggestions: []string{
			"You don't have sufficient permissions to run this command.",
			"Try running the command with 'sudo' for elevated privileges.",
		},
		AlternativeCommands: []string{"sudo " + command},
	}

	fields := strings.Fields(command)
	if len(fields) > 0 && (strings.Contains(strings.ToLower(errorText), "file") || strings.Contains(command, "/")) {
		target := fields[len(fields)-1]
		d.Suggestions = append(d.Suggestions, "Check file permissions with 'ls -l' and modify if needed.")
		d.AlternativeCommands = append(d.AlternativeCommands, "ls -l "+target, "chmod +x "+target)
	}
	return d
}

func handleFileNotFound(command, errorText string) *models.Diagnosis {
	d := &models.Diagnosis{
		ErrorType: ErrFileNotFound,
		Suggestions: []string{
			"The specified file or directory does not exist.",
			"Check the file path and try again.",
		},
	}

	// Best-effort guess of the missing path from the command arguments.
	var filePath string
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return d
	}
	for _, part := range fields[1:] {
		if strings.HasPrefix(part, "-") {
			continue
		}
		if strings.Contains(part, "/") || strings.Contains(part, ".") {
			filePath = part
			break
		}
	}
	if filePath == "" {
		return d
	}

	d.Suggestions = append(d.Suggestions, fmt.Sprintf("Check if '%s' exists.", filePath))
	d.AlternativeCommands = append(d.AlternativeCommands, "ls -la "+filePath)

	base := filePath[strings.LastIndex(filePath, "/")+1:]
	if !strings.Contains(base, ".") {
		d.Suggestions = append(d.Suggestions, "Try creating the directory: mkdir -p "+filePath)
		d.AlternativeCommands = append(d.AlternativeCommands, "mkdir -p "+filePath)
	} else if idx := strings.LastIndex(filePath, "/"); idx > 0 {
		dir := filePath[:idx]
		d.Suggestions = append(d.Suggestions, "Check the directory: ls -la "+dir)
		d.AlternativeCommands = append(d.AlternativeCommands, "ls -la "+dir)
	}
	return d
}

func handleSyntaxError(command, errorText string) *models.Diagnosis {
	name := commandName(command)
	d := &models.Diagnosis{
		ErrorType: ErrSyntax,
		Suggestions: []string{
			"There's a syntax error in your command.",
			fmt.Sprintf("Check the correct usage of '%s' with: %s --help", name, name),
		},
		AlternativeCommands: []string{name + " --help"},
	}
	if name == "bash" || name == "sh" || strings.Contains(strings.ToLower(errorText), "bash") {
		d.Suggestions = append(d.Suggestions, "Check for missing quotes, brackets, or semicolons.")
	}
	return d
}

func handleInvalidOption(command, errorText string) *models.Diagnosis {
	name := commandName(command)
	d := &models.Diagnosis{
		ErrorType: ErrInvalidOption,
		Suggestions: []string{
			fmt.Sprintf("The command '%s' doesn't recognize one of the options you provided.", name),
			fmt.Sprintf("Check the correct usage with: %s --help", name),
		},
		AlternativeCommands: []string{name + " --help"},
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return d
	}
	for _, part := range fields[1:] {
		if strings.HasPrefix(part, "-") && strings.Contains(errorText, part) {
			d.Suggestions = append(d.Suggestions, fmt.Sprintf("The option '%s' appears to be invalid.", part))
			if strings.HasPrefix(part, "--") {
				var kept []string
				for _, p := range fields {
					if p != part {
						kept = append(kept, p)
					}
				}
				corrected := strings.Join(kept, " ")
				d.Suggestions = append(d.Suggestions, "Try: "+corrected)
				d.AlternativeCommands = append(d.AlternativeCommands, corrected)
			}
			break
		}
	}
	return d
}

func handlePackageNotFound(command, errorText string) *models.Diagnosis {
	d := &models.Diagnosis{
		ErrorType:   ErrPackageNotFound,
		Suggestions: []string{"The specified package could not be found."},
	}

	var name string
	if m := packageNamePattern.FindStringSubmatch(errorText); m != nil {
		name = m[1]
	}

	switch {
	case strings.Contains(command, "apt"):
		d.Suggestions = append(d.Suggestions, "Try updating the package list: sudo apt-get update")
		d.AlternativeCommands = append(d.AlternativeCommands, "sudo apt-get update")
		if name != "" {
			d.Suggestions = append(d.Suggestions, "Search for similar packages: apt search "+name)
			d.AlternativeCommands = append(d.AlternativeCommands, "apt search "+name)
		}
	case strings.Contains(command, "pip") && name != "":
		d.Suggestions = append(d.Suggestions, "Check the package name on PyPI: https://pypi.org/project/"+name+"/")
		d.AlternativeCommands = append(d.AlternativeCommands, "pip search "+name)
	case strings.Contains(command, "npm") && name != "":
		d.Suggestions = append(d.Suggestions, "Check the package name on npm: https://www.npmjs.com/package/"+name)
		d.AlternativeCommands = append(d.AlternativeCommands, "npm search "+name)
	}
	return d
}

func handleModuleNotFound(command, errorText string) *models.Diagnosis {
	d := &models.Diagnosis{
		ErrorType:   ErrModuleNotFound,
		Suggestions: []string{"The specified module or library could not be found."},
	}

	var name string
	if m := moduleNamePattern.FindStringSubmatch(errorText); m != nil {
		name = m[1]
	}
	if name == "" {
		return d
	}

	switch {
	case strings.Contains(command, "python"):
		d.Suggestions = append(d.Suggestions, "Try installing the module: pip install "+name)
		d.AlternativeCommands = append(d.AlternativeCommands, "pip install "+name)
	case strings.Contains(command, "node"):
		d.Suggestions = append(d.Suggestions, "Try installing the module: npm install "+name)
		d.AlternativeCommands = append(d.AlternativeCommands, "npm install "+name)
	}
	return d
}

func handleNetworkError(command, errorText string) *models.Diagnosis {
	d := &models.Diagnosis{
		ErrorType: ErrNetwork,
		Suggestions: []string{
			"There was a problem with the network connection.",
			"Check your internet connection and try again.",
		},
	}

	lower := strings.ToLower(errorText)
	switch {
	case strings.Contains(lower, "could not resolve host"):
		d.Suggestions = append(d.Suggestions,
			"The hostname could not be resolved. Check the URL or domain name.",
			"Try checking your DNS settings.")
		d.AlternativeCommands = append(d.AlternativeCommands, "ping 8.8.8.8")
	case strings.Contains(lower, "connection refused"):
		d.Suggestions = append(d.Suggestions,
			"The connection was refused. The server might be down or not accepting connections.",
			"Check if the service is running and the port is correct.")
		if m := hostPortPattern.FindStringSubmatch(command); m != nil {
			host, port := m[1], m[2]
			if port == "" {
				port = "80"
			}
			d.Suggestions = append(d.Suggestions, "Try checking if the host is reachable: ping "+host)
			d.AlternativeCommands = append(d.AlternativeCommands, "ping "+host, fmt.Sprintf("telnet %s %s", host, port))
		}
	case strings.Contains(lower, "network is unreachable"):
		d.Suggestions = append(d.Suggestions,
			"The network is unreachable. Check your network connection.",
			"Try checking your network configuration.")
		d.AlternativeCommands = append(d.AlternativeCommands, "ip addr show", "route -n")
	}
	return d
}

func handleDiskSpace(command, errorText string) *models.Diagnosis {
	return &models.Diagnosis{
		ErrorType: ErrDiskSpace,
		Suggestions: []string{
			"There is no space left on the device.",
			"Try freeing up some disk space.",
		},
		AlternativeCommands: []string{"df -h", "du -sh /* | sort -hr"},
	}
}

func handleGeneric(command, errorText string) *models.Diagnosis {
	d := &models.Diagnosis{
		ErrorType: ErrGeneric,
		Suggestions: []string{
			"The command failed.",
			"Check the error message for details.",
		},
	}
	if lines := strings.SplitN(errorText, "\n", 2); len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		d.Suggestions = append(d.Suggestions, "Error message: "+strings.TrimSpace(lines[0]))
	}
	return d
}

// levenshtein computes the edit distance between two strings, used to offer
// typo corrections for mistyped commands.
func levenshtein(s1, s2 string) int {
	if len(s1) < len(s2) {
		s1, s2 = s2, s1
	}
	if len(s2) == 0 {
		return len(s1)
	}

	previous := make([]int, len(s2)+1)
	for i := range previous {
		previous[i] = i
	}

	for i, c1 := range s1 {
		current := make([]int, 0, len(s2)+1)
		current = append(current, i+1)
		for j, c2 := range s2 {
			insertion := previous[j+1] + 1
			deletion := current[j] + 1
			substitution := previous[j]
			if c1 != c2 {
				substitution++
			}
			current = append(current, min(insertion, deletion, substitution))
		}
		previous = current
	}
	return previous[len(previous)-1]
}
