package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kerem/aide/internal/models"
)

// defaultContents maps file extensions to the placeholder content used when
// a file_create request carries no content.
var defaultContents = map[string]string{
	".txt":  "Bu bir metin dosyasıdır.",
	".py":   "# Bu bir Python dosyasıdır\nprint('Merhaba, Dünya!')",
	".html": "<!DOCTYPE html>\n<html>\n<head>\n  <title>Yeni HTML Sayfası</title>\n</head>\n<body>\n  <h1>Merhaba, Dünya!</h1>\n</body>\n</html>",
	".js":   "// Bu bir JavaScript dosyasıdır\nconsole.log('Merhaba, Dünya!');",
	".css":  "/* Bu bir CSS dosyasıdır */\nbody {\n  font-family: Arial, sans-serif;\n}",
}

func (d *Dispatcher) folderCreate(req models.ActionRequest) *models.ExecutionResult {
	path := req.StringParam("path")
	folderName := req.StringParam("folder_name")

	// A bare path may already include the folder name as its last segment.
	if folderName == "" && strings.Contains(path, "/") {
		path, folderName = filepath.Split(path)
		path = strings.TrimSuffix(path, "/")
	}
	if folderName == "" {
		folderName = "yeni_klasor"
	}

	fullPath := filepath.Join(path, folderName)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return models.Failuref(req.Action, "failed to create folder: %v", err)
	}
	return models.Successf(req.Action, "folder created: %s", fullPath)
}

func (d *Dispatcher) fileCreate(req models.ActionRequest) *models.ExecutionResult {
	path := req.StringParam("path")
	fileName := req.StringParam("file_name")
	content := req.StringParam("file_content")
	if content == "" {
		content = req.StringParam("content")
	}
	extension := req.StringParam("extension")

	// A path ending in an extension is a full file path: split it.
	if fileName == "" && strings.Contains(path, "/") {
		if filepath.Ext(path) != "" {
			fileName = filepath.Base(path)
			path = filepath.Dir(path)
		}
	}
	if fileName == "" {
		fileName = "yeni_dosya"
	}

	// Honor the requested extension when the name carries none.
	if filepath.Ext(fileName) == "" && extension != "" {
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		fileName += extension
	}

	fullPath := filepath.Join(path, fileName)
	if content == "" {
		if fallback, ok := defaultContents[strings.ToLower(filepath.Ext(fullPath))]; ok {
			content = fallback
		} else {
			content = "Bu bir dosyadır."
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return models.Failuref(req.Action, "failed to create parent folder: %v", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return models.Failuref(req.Action, "failed to create file: %v", err)
	}
	return models.Successf(req.Action, "file created: %s", fullPath)
}

func (d *Dispatcher) fileWrite(req models.ActionRequest) *models.ExecutionResult {
	path := req.StringParam("path")
	if path == "" {
		return models.Failuref(req.Action, "file_write requires a 'path' parameter")
	}
	content := req.StringParam("content")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return models.Failuref(req.Action, "failed to create parent folder: %v", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return models.Failuref(req.Action, "failed to write file: %v", err)
	}
	return models.Successf(req.Action, "file written: %s", path)
}

// hostInfo builds the canned self-description texts served by system_info.
func hostInfo() map[string]string {
	hostname, _ := os.Hostname()
	return map[string]string{
		"introduction": "I am aide, an assistant running locally on this machine. " +
			"I can read and write files, open applications, run terminal commands, " +
			"and perform browser actions.",
		"capabilities": "Some of the things I can do: file and folder operations, " +
			"browser searches, opening and closing applications, running terminal " +
			"commands, and taking screenshots.",
		"system": fmt.Sprintf("Operating system: %s/%s\nHostname: %s",
			runtime.GOOS, runtime.GOARCH, hostname),
	}
}
