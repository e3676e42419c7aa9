package container

// Options configures both binaries. humacli maps every field to a flag and a
// SERVICE_* environment variable.
type Options struct {
	Port        int    `default:"8888"    help:"Port to listen on"                                     short:"p"`
	BaseURL     string `default:""        help:"Public base URL for short links, defaults to localhost" short:"b"`
	DatabaseURL string `default:""        help:"Postgres connection string"                            short:"d"`
	SQLitePath  string `default:""        help:"SQLite database file, used when no database url is set"`
	Migrate     bool   `default:"true"    help:"Apply Postgres migrations on start"`
	RedisAddr   string `default:""        help:"Redis address for the audit stream, empty keeps events in process" short:"r"`
	LogFormat   string `default:"console" help:"Log format: console or json"`
	LogLevel    string `default:"info"    help:"Log level: debug, info, warn or error"`
	JWTSecret   string `default:""        help:"HS256 secret used to sign tokens"`
	AccessTTL   string `default:"15m"     help:"Access token lifetime"`
	RefreshTTL  string `default:"720h"    help:"Refresh token lifetime"`
}
