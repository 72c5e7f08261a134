package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yeuxouverts/shop/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database named by DB_URI and stores it in DB.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Connect() error {
	driver, dsn, err := ParseURI(config.DatabaseURI())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if forced := config.DatabaseDriver(); forced != "" {
		driver = forced
	}

	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects with an explicit driver and DSN and configures the pool.
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // use pkg/logger, not GORM's own
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// One long-lived connection: SQLite serialises writers anyway and
		// an in-memory database disappears with its last connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// ParseURI turns a SQLAlchemy-style connection string into a GORM driver
// name and DSN:
//
//	sqlite:///yeuxouverts.db          → sqlite, yeuxouverts.db
//	sqlite:////var/lib/shop.db        → sqlite, /var/lib/shop.db
//	postgresql+psycopg2://u:p@h/db    → postgres, postgres://u:p@h/db
//	mysql+pymysql://u:p@h:3306/db     → mysql, u:p@tcp(h:3306)/db?charset=utf8mb4&parseTime=True
//	mssql+pyodbc://u:p@h:1433/db      → sqlserver, sqlserver://u:p@h:1433?database=db
//
// A string without a scheme is taken as a SQLite file path.
func ParseURI(uri string) (driver, dsn string, err error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", "", fmt.Errorf("empty DB_URI")
	}

	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return "sqlite", uri, nil
	}
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			path = ":memory:"
		}
		return "sqlite", path, nil
	case "postgres", "postgresql":
		return "postgres", "postgres://" + rest, nil
	case "mysql", "mariadb":
		return mysqlDSN(rest)
	case "mssql", "sqlserver":
		return sqlserverDSN(rest)
	default:
		return "", "", fmt.Errorf("unsupported DB_URI scheme %q", scheme)
	}
}

func mysqlDSN(rest string) (string, string, error) {
	u, err := url.Parse("mysql://" + rest)
	if err != nil {
		return "", "", fmt.Errorf("parse mysql uri: %w", err)
	}

	host := u.Host
	if u.Port() == "" {
		host += ":3306"
	}

	params := u.Query()
	if params.Get("charset") == "" {
		params.Set("charset", "utf8mb4")
	}
	if params.Get("parseTime") == "" {
		params.Set("parseTime", "True")
	}

	// go-sql-driver wants the credentials raw, not percent-escaped.
	creds := u.User.Username()
	if pw, ok := u.User.Password(); ok {
		creds += ":" + pw
	}
	dsn := fmt.Sprintf("%s@tcp(%s)%s?%s", creds, host, u.Path, params.Encode())
	return "mysql", dsn, nil
}

func sqlserverDSN(rest string) (string, string, error) {
	u, err := url.Parse("sqlserver://" + rest)
	if err != nil {
		return "", "", fmt.Errorf("parse mssql uri: %w", err)
	}

	params := u.Query()
	if name := strings.Trim(u.Path, "/"); name != "" {
		params.Set("database", name)
	}
	u.Path = ""
	u.RawQuery = params.Encode()
	return "sqlserver", u.String(), nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
