package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     cfg, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     cfg, err := config.Load("/path/to/config.yaml", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "api-key":    "your-tatsu-key",
//         "output":     "./my-exports",
//         "concurrent": 5,
//         "log-level":  "debug",
//     }
//     cfg, err := config.Load("", flags)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 4. Programmatic configuration:
//
//     cfg := config.DefaultConfig()
//     cfg.API.Key = "your-tatsu-key"
//     cfg.Crawl.ConcurrentPages = 5
//
//     if err := cfg.Validate(); err != nil {
//         log.Fatal(err)
//     }
//
// 5. Save configuration to file:
//
//     if err := cfg.Save(".tatsugo.yaml"); err != nil {
//         log.Fatal(err)
//     }
//
// 6. Environment variables:
//
//     export TATSU_API_KEY="your-tatsu-key"
//     export TATSU_BASE_URL="https://api.tatsu.gg/v1"
//     export TATSU_OUTPUT_DIR="./exports"
//     export TATSU_CONCURRENT_PAGES="5"
//     export TATSU_REQUESTS_PER_MINUTE="60"
//     export TATSU_MAX_RETRIES="2"
//     export TATSU_LOG_LEVEL="debug"
//
// 7. Using configuration in your application:
//
//     client, err := tatsu.New(cfg.API.Key,
//         tatsu.WithBaseURL(cfg.API.BaseURL),
//         tatsu.WithTimeout(cfg.API.Timeout),
//         tatsu.WithRateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Window),
//     )
//     if err != nil {
//         log.Fatal(err)
//     }
//     defer client.Close()
