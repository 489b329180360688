package model

import "time"

// Config is the complete artgraph configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Wikidata     WikidataConfig     `yaml:"wikidata"`
	Crawl        CrawlConfig        `yaml:"crawl"`
	Assemble     AssembleConfig     `yaml:"assemble"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting"`
	Output       OutputConfig       `yaml:"output"`
}

// HTTPConfig controls every outbound request
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"` // HTML pages only
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// WikidataConfig locates the knowledge-graph endpoints
type WikidataConfig struct {
	APIURL           string `yaml:"api_url"`
	SPARQLURL        string `yaml:"sparql_url"`
	WikiBaseURL      string `yaml:"wiki_base_url"`     // Entity page prefix used for wiki_url
	Language         string `yaml:"language"`          // Label language and <lang>wiki sitelink
	FallbackLanguage string `yaml:"fallback_language"` // Used when the label is missing in Language
	CommonsFileURL   string `yaml:"commons_file_url"`  // Media link template prefix
	WikipediaURL     string `yaml:"wikipedia_url"`     // Article URL prefix, %s is the language
}

// CrawlConfig controls catalogue crawling
type CrawlConfig struct {
	CollectionURL string `yaml:"collection_url"`
	CatalogPrefix string `yaml:"catalog_prefix"`
	TableMarker   string `yaml:"table_marker"` // CSS class of the data table
	IDColumn      int    `yaml:"id_column"`    // Column holding the entity link
	Order         string `yaml:"order"`        // dfs or bfs
	FailureLog    string `yaml:"failure_log"`  // Append-only log of failed fetches
	RespectRobots bool   `yaml:"respect_robots"`
}

// AssembleConfig controls record assembly
type AssembleConfig struct {
	CreatorQueryFallback bool `yaml:"creator_query_fallback"` // Ask SPARQL when P170 has no claims
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"` // 1 keeps assembly fully sequential
}

// RateLimitingConfig controls the optional per-host request pacer
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 disables pacing
	BurstSize         int     `yaml:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose    bool   `yaml:"verbose"`
	Pretty     bool   `yaml:"pretty"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "artgraph/0.1 (+https://github.com/ppiankov/artgraph)",
			MaxBodyBytes: 10_000_000,
		},
		Wikidata: WikidataConfig{
			APIURL:           "https://www.wikidata.org/w/api.php",
			SPARQLURL:        "https://query.wikidata.org/sparql",
			WikiBaseURL:      DefaultWikiBaseURL,
			Language:         "en",
			FallbackLanguage: "mul",
			CommonsFileURL:   "https://commons.wikimedia.org/wiki/Special:FilePath/",
			WikipediaURL:     "https://%s.wikipedia.org/wiki/",
		},
		Crawl: CrawlConfig{
			CollectionURL: "https://www.wikidata.org/wiki/Wikidata:WikiProject_sum_of_all_paintings/Collection_catalogs",
			CatalogPrefix: "https://www.wikidata.org/wiki/Wikidata:WikiProject_sum_of_all_paintings/Catalog/",
			TableMarker:   "wikitable",
			IDColumn:      1,
			Order:         "dfs",
			FailureLog:    "scrape_failures.log",
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Pretty: false,
		},
	}
}
