package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// trigger maps a multi-language action keyword pattern to the action id the
// heuristic synthesizes. This is the last-resort strategy for responses that
// carry intent but no parseable JSON at all.
type trigger struct {
	pattern *regexp.Regexp
	action  string
}

var triggers = []trigger{
	{regexp.MustCompile(`(?i)create_folder|folder_create|mkdir|createfolder|klasör_oluştur`), "folder_create"},
	{regexp.MustCompile(`(?i)create_file|file_create|touch|createfile|dosya_oluştur`), "file_create"},
	{regexp.MustCompile(`(?i)delete_file|file_delete|deletefile|dosya_sil`), "file_delete"},
	{regexp.MustCompile(`(?i)read_file|file_read|readfile|dosya_oku`), "file_read"},
	{regexp.MustCompile(`(?i)run_command|command_run|runcommand|exec|komut_çalıştır`), "terminal_execute"},
	{regexp.MustCompile(`(?i)browser_open|open_url|browser_navigate|tarayıcı_aç|url_aç`), "browser_open"},
	{regexp.MustCompile(`(?i)browser_search|search_on_site|search|tarayıcıda_ara|site_arama|google'da ara`), "browser_search"},
	{regexp.MustCompile(`(?i)browser_shop_online|online_alışveriş|alışveriş_yap`), "browser_shop_online"},
	{regexp.MustCompile(`(?i)add_to_cart|sepete_ekle|satın_al`), "browser_universal_add_to_cart"},
	{regexp.MustCompile(`(?i)browser_comprehensive_search|kapsamlı_arama|detaylı_arama`), "browser_comprehensive_search"},
}

var (
	quotedParamPattern = func(keys string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)"(?:` + keys + `)":\s*"([^"]+)"`)
	}

	pathParam      = quotedParamPattern("path")
	folderParam    = quotedParamPattern("folder_name")
	fileNameParam  = quotedParamPattern("file_name")
	contentParam   = regexp.MustCompile(`(?i)"(?:file_)?content":\s*"([^"]+)"`)
	extensionParam = quotedParamPattern("extension")
	commandParam   = quotedParamPattern("command")
	urlParam       = quotedParamPattern("url|link|adres|site")
	browserParam   = quotedParamPattern("browser|tarayıcı")
	queryParam     = quotedParamPattern("query|search|arama|sorgula")
	siteParam      = quotedParamPattern("site|website|sayfa")
	engineParam    = quotedParamPattern("engine|motor|search_engine")
	productParam   = quotedParamPattern("product|ürün|item")

	rawURLPattern     = regexp.MustCompile(`https?://[^\s"']+`)
	productNameToken  = regexp.MustCompile(`(?i)(?:iphone|macbook|samsung|nokia|xbox|playstation|tv|laptop)(?:\s+\w+){0,3}`)
	commandAfterVerb  = regexp.MustCompile(`(?i)(?:çalıştır|execute|run)(?:\s+command)?[:\s]+["']?([^"'.?]+)["'.?]?`)
	queryAfterVerb    = regexp.MustCompile(`(?i)(?:ara|bul|search)(?:\s+for)?[:\s]+["']?([^"'.?]+)["'.?]?`)
	filterPairPattern = regexp.MustCompile(`"([^"]+)":\s*"([^"]+)"`)
	enginesListParam  = regexp.MustCompile(`(?i)"(?:engines|search_engines)":\s*(\[[^\]]+\])`)
	sitesListParam    = regexp.MustCompile(`(?i)"(?:sites|websites|sayfalar)":\s*(\[[^\]]+\])`)
	maxResultsParam   = regexp.MustCompile(`(?i)"(?:max_results|limit|sonuç_limiti)":\s*(\d+)`)
)

var commonSites = []string{"google.com", "apple.com", "amazon.com", "youtube.com"}

var shoppingSites = []string{"amazon", "apple", "bestbuy", "walmart", "ebay"}

// keywordHeuristic synthesizes action candidates from trigger keywords and
// regex-extracted parameters. Triggers whose required parameters cannot be
// recovered from the text are skipped rather than emitted half-formed.
func keywordHeuristic(input string) []map[string]any {
	var candidates []map[string]any
	for _, t := range triggers {
		if !t.pattern.MatchString(input) {
			continue
		}
		if c := synthesize(t.action, input); c != nil {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func synthesize(action, input string) map[string]any {
	switch action {
	case "folder_create":
		return synthesizeFolderCreate(input)
	case "file_create":
		return synthesizeFileCreate(input)
	case "terminal_execute":
		return synthesizeCommand(input)
	case "browser_open":
		return synthesizeBrowserOpen(input)
	case "browser_search":
		return synthesizeBrowserSearch(input)
	case "browser_shop_online":
		return synthesizeShopOnline(input)
	case "browser_universal_add_to_cart":
		return synthesizeAddToCart(input)
	case "browser_comprehensive_search":
		return synthesizeComprehensiveSearch(input)
	default:
		return nil
	}
}

func candidate(action string, params map[string]any) map[string]any {
	return map[string]any{"action": action, "params": params}
}

func firstMatch(re *regexp.Regexp, input string) string {
	if m := re.FindStringSubmatch(input); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func synthesizeFolderCreate(input string) map[string]any {
	path := firstMatch(pathParam, input)
	if path == "" {
		return nil
	}
	return candidate("folder_create", map[string]any{
		"path":        path,
		"folder_name": firstMatch(folderParam, input),
	})
}

func synthesizeFileCreate(input string) map[string]any {
	path := firstMatch(pathParam, input)
	name := firstMatch(fileNameParam, input)
	if path == "" && name == "" {
		return nil
	}

	params := map[string]any{}
	if path != "" {
		params["path"] = path
	}
	if name != "" {
		params["file_name"] = name
	}
	if content := firstMatch(contentParam, input); content != "" {
		params["content"] = content
	}
	if ext := firstMatch(extensionParam, input); ext != "" {
		params["extension"] = ext
	}

	// Without explicit content, seed a minimal default by file type.
	if _, ok := params["content"]; !ok && path != "" {
		lower := strings.ToLower(path)
		switch {
		case strings.Contains(lower, ".txt"):
			params["content"] = "Bu bir metin dosyasıdır."
		case strings.Contains(lower, ".py"):
			params["content"] = "# Bu bir Python dosyasıdır\nprint('Merhaba, Dünya!')"
		}
	}
	return candidate("file_create", params)
}

func synthesizeCommand(input string) map[string]any {
	command := firstMatch(commandParam, input)
	if command == "" {
		command = firstMatch(commandAfterVerb, input)
	}
	if command == "" {
		return nil
	}
	return candidate("terminal_execute", map[string]any{"command": command})
}

func synthesizeBrowserOpen(input string) map[string]any {
	url := firstMatch(urlParam, input)
	if url == "" {
		if raw := rawURLPattern.FindString(input); raw != "" {
			url = raw
		}
	}
	if url == "" {
		lower := strings.ToLower(input)
		for _, site := range commonSites {
			if strings.Contains(lower, site) {
				url = "https://www." + site
				break
			}
		}
	}
	if url == "" {
		return nil
	}

	params := map[string]any{"url": url}
	if browser := firstMatch(browserParam, input); browser != "" {
		params["browser"] = browser
	}
	return candidate("browser_open", params)
}

func synthesizeBrowserSearch(input string) map[string]any {
	query := firstMatch(queryParam, input)
	if query == "" {
		query = firstMatch(queryAfterVerb, input)
	}
	if query == "" {
		query = strings.TrimSpace(productNameToken.FindString(input))
	}
	if query == "" {
		return nil
	}

	params := map[string]any{"query": query}
	if site := firstMatch(siteParam, input); site != "" {
		params["site"] = site
	}
	if engine := firstMatch(engineParam, input); engine != "" {
		params["engine"] = engine
	}
	return candidate("browser_search", params)
}

func synthesizeShopOnline(input string) map[string]any {
	query := firstMatch(productParam, input)
	if query == "" {
		query = strings.TrimSpace(productNameToken.FindString(input))
	}
	if query == "" {
		return nil
	}

	params := map[string]any{"query": query}
	if site := firstMatch(siteParam, input); site != "" {
		params["site"] = site
	} else {
		lower := strings.ToLower(input)
		for _, site := range shoppingSites {
			if strings.Contains(lower, site) {
				params["site"] = site + ".com"
				break
			}
		}
	}

	filters := map[string]any{}
	for _, m := range filterPairPattern.FindAllStringSubmatch(input, -1) {
		switch strings.ToLower(m[1]) {
		case "price", "fiyat", "color", "renk", "size", "boyut":
			filters[m[1]] = m[2]
		}
	}
	if len(filters) > 0 {
		params["filters"] = filters
	}
	return candidate("browser_shop_online", params)
}

func synthesizeAddToCart(input string) map[string]any {
	product := firstMatch(productParam, input)
	if product == "" {
		product = strings.TrimSpace(productNameToken.FindString(input))
	}
	if product == "" {
		return nil
	}

	params := map[string]any{"product": product}
	if site := firstMatch(siteParam, input); site != "" {
		params["site"] = site
	}
	return candidate("browser_universal_add_to_cart", params)
}

func synthesizeComprehensiveSearch(input string) map[string]any {
	query := firstMatch(queryParam, input)
	if query == "" {
		query = firstMatch(queryAfterVerb, input)
	}
	if query == "" {
		query = strings.TrimSpace(productNameToken.FindString(input))
	}
	if query == "" {
		return nil
	}

	params := map[string]any{"query": query}
	if m := enginesListParam.FindStringSubmatch(input); m != nil {
		var engines []string
		if err := json.Unmarshal([]byte(m[1]), &engines); err == nil {
			params["engines"] = engines
		}
	}
	if m := sitesListParam.FindStringSubmatch(input); m != nil {
		var sites []string
		if err := json.Unmarshal([]byte(m[1]), &sites); err == nil {
			params["sites"] = sites
		}
	}
	if m := maxResultsParam.FindStringSubmatch(input); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			params["max_results"] = n
		}
	}
	return candidate("browser_comprehensive_search", params)
}
