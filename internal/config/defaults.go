package config

const (
	defaultCataloguePath   = "~/.cache/fluids/catalogue.txt"
	defaultHistoryPath     = "~/.local/share/fluids/history.db"
	defaultLogDir          = "~/.local/share/fluids/logs"
	defaultBaseURL         = "https://webbook.nist.gov/cgi/fluid.cgi"
	defaultListingURL      = "https://webbook.nist.gov/chemistry/fluid/"
	defaultRequestTimeout  = 60
	defaultUserAgent       = "fluids/dev"
	defaultCatalogueMaxAge = 24
	defaultDigits          = 5
	defaultRefState        = "DEF"
	defaultOutputPrefix    = "fluids"
	defaultUnitPreset      = "default"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CataloguePath: defaultCataloguePath,
			HistoryPath:   defaultHistoryPath,
			LogDir:        defaultLogDir,
		},
		Service: Service{
			BaseURL:        defaultBaseURL,
			ListingURL:     defaultListingURL,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Catalogue: Catalogue{
			MaxAgeHours: defaultCatalogueMaxAge,
		},
		Request: Request{
			Digits:       defaultDigits,
			RefState:     defaultRefState,
			OutputPrefix: defaultOutputPrefix,
			UnitPreset:   defaultUnitPreset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
