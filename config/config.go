// Copyright (C) 2023 The Marquee Authors.
//
// This file is part of Marquee.
//
// Marquee is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Marquee is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Marquee.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/defsub/marquee"
	"github.com/spf13/viper"
)

type BucketConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	ObjectPrefix    string
	UseSSL          bool
	URLExpiration   time.Duration
	RewriteRules    []RewriteRule
}

type RewriteRule struct {
	Pattern string
	Replace string
}

type DatabaseConfig struct {
	Driver  string
	Source  string
	LogMode bool
}

type TokenConfig struct {
	Issuer string
	Age    time.Duration
	Secret string
}

type AuthConfig struct {
	DB         DatabaseConfig
	UserToken  TokenConfig
	AdminToken TokenConfig
}

type CatalogConfig struct {
	DB          DatabaseConfig
	CastLimit   int
	SearchLimit int
	RecentLimit int
	Seasonal    []DatePick
}

// DatePick names a search query that surfaces when the current date matches.
type DatePick struct {
	Name   string
	Layout string
	Match  string
	Query  string
}

type RecommendConfig struct {
	PersonalizedLimit int
	SimilarLimit      int
	TrendingLimit     int
	TopRatedLimit     int
	InsightLimit      int
}

type LibraryConfig struct {
	DB DatabaseConfig
}

type DiscussionConfig struct {
	DB DatabaseConfig
}

type ReminderConfig struct {
	DB        DatabaseConfig
	SweepTime string
}

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SearchConfig struct {
	BleveDir string
}

type ServerConfig struct {
	Listen    string
	URL       string
	ImageDir  string
	RateLimit int
	RateBurst int
}

type ClientConfig struct {
	CacheDir  string
	MaxAge    time.Duration
	UseCache  bool
	UserAgent string
}

func (c *ClientConfig) Merge(o ClientConfig) {
	if o.CacheDir != "" {
		c.CacheDir = o.CacheDir
	}
	c.MaxAge = o.MaxAge
	c.UseCache = o.UseCache
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
}

type Config struct {
	Auth       AuthConfig
	Buckets    []BucketConfig
	Catalog    CatalogConfig
	Client     ClientConfig
	DataDir    string
	Discussion DiscussionConfig
	Library    LibraryConfig
	Mail       MailConfig
	Recommend  RecommendConfig
	Reminder   ReminderConfig
	Search     SearchConfig
	Server     ServerConfig
}

func configDefaults(v *viper.Viper) {
	v.SetDefault("Auth.DB.Driver", "sqlite3")
	v.SetDefault("Auth.DB.LogMode", "false")
	v.SetDefault("Auth.DB.Source", "auth.db")
	v.SetDefault("Auth.UserToken.Issuer", "marquee")
	v.SetDefault("Auth.UserToken.Age", "24h")
	v.SetDefault("Auth.AdminToken.Issuer", "marquee-admin")
	v.SetDefault("Auth.AdminToken.Age", "4h")

	v.SetDefault("Client.CacheDir", ".httpcache")
	v.SetDefault("Client.MaxAge", "720h") // 30 days in hours
	v.SetDefault("Client.UseCache", "false")
	v.SetDefault("Client.UserAgent", userAgent())

	v.SetDefault("DataDir", ".")

	v.SetDefault("Catalog.DB.Driver", "sqlite3")
	v.SetDefault("Catalog.DB.Source", "catalog.db")
	v.SetDefault("Catalog.DB.LogMode", "false")
	v.SetDefault("Catalog.CastLimit", "25")
	v.SetDefault("Catalog.SearchLimit", "100")
	v.SetDefault("Catalog.RecentLimit", "50")
	v.SetDefault("Catalog.Seasonal", []DatePick{
		// day of week + day of month
		{Match: "Fri 13", Layout: "Mon 02", Name: "Friday 13th Movies", Query: `+keyword:slasher`},
		// day of month
		{Match: "Feb 02", Layout: "Jan 02", Name: "Groundhog Day Movies", Query: `+keyword:"time loop"`},
		{Match: "Feb 14", Layout: "Jan 02", Name: "Valentine's Day Movies", Query: `+genre:Romance`},
		{Match: "Mar 17", Layout: "Jan 02", Name: "St. Patrick's Day Movies", Query: `+keyword:leprechaun`},
		{Match: "Apr 01", Layout: "Jan 02", Name: "April Fool's Movies", Query: `+keyword:prank`},
		{Match: "May 04", Layout: "Jan 02", Name: "Star Wars Movies", Query: `+title:"star wars"`},
		{Match: "Jul 04", Layout: "Jan 02", Name: "July 4th Movies", Query: `+keyword:independence`},
		{Match: "Oct 21", Layout: "Jan 02", Name: "Back to the Future Movies", Query: `+title:"back to the future"`},
		// months
		{Match: "Oct", Layout: "Jan", Name: "Halloween Movies", Query: `+keyword:halloween`},
		{Match: "Dec", Layout: "Jan", Name: "Christmas Movies", Query: `+keyword:christmas`},
	})

	v.SetDefault("Recommend.PersonalizedLimit", "10")
	v.SetDefault("Recommend.SimilarLimit", "5")
	v.SetDefault("Recommend.TrendingLimit", "10")
	v.SetDefault("Recommend.TopRatedLimit", "10")
	v.SetDefault("Recommend.InsightLimit", "5")

	v.SetDefault("Library.DB.Driver", "sqlite3")
	v.SetDefault("Library.DB.Source", "library.db")
	v.SetDefault("Library.DB.LogMode", "false")

	v.SetDefault("Discussion.DB.Driver", "sqlite3")
	v.SetDefault("Discussion.DB.Source", "discussion.db")
	v.SetDefault("Discussion.DB.LogMode", "false")

	v.SetDefault("Reminder.DB.Driver", "sqlite3")
	v.SetDefault("Reminder.DB.Source", "reminder.db")
	v.SetDefault("Reminder.DB.LogMode", "false")
	v.SetDefault("Reminder.SweepTime", "8:00")

	v.SetDefault("Mail.Enabled", "false")
	v.SetDefault("Mail.Host", "localhost")
	v.SetDefault("Mail.Port", "587")
	v.SetDefault("Mail.From", marquee.Contact)

	v.SetDefault("Search.BleveDir", ".")

	v.SetDefault("Server.Listen", "127.0.0.1:3000")
	v.SetDefault("Server.URL", "https://example.com") // w/o trailing slash
	v.SetDefault("Server.ImageDir", "images")
	v.SetDefault("Server.RateLimit", "10")
	v.SetDefault("Server.RateBurst", "20")
}

func userAgent() string {
	return marquee.AppName + "/" + marquee.Version + " ( " + marquee.Contact + " ) "
}

func readConfig(v *viper.Viper) (*Config, error) {
	var config Config
	var pathRegexp = regexp.MustCompile(`(file|dir|source)$`)
	err := v.ReadInConfig()
	dir := filepath.Dir(v.ConfigFileUsed())
	for _, k := range v.AllKeys() {
		if pathRegexp.MatchString(k) {
			val := v.Get(k)
			if strings.HasPrefix(val.(string), "/") == false {
				val = fmt.Sprintf("%s/%s", dir, val.(string))
				v.Set(k, val)
			}
		}
	}
	if err == nil {
		err = v.Unmarshal(&config)
	}
	return &config, err
}

// TestConfig returns a config rooted in dir with defaults applied, intended
// for tests that want throwaway databases.
func TestConfig(dir string) (*Config, error) {
	v := viper.New()
	configDefaults(v)
	v.SetDefault("Auth.UserToken.Secret", "AgQIECBA")
	v.SetDefault("Auth.AdminToken.Secret", "BAECIQgE")
	v.SetDefault("DataDir", dir)
	v.SetDefault("Search.BleveDir", dir)
	for _, db := range []string{"Auth", "Catalog", "Library", "Discussion", "Reminder"} {
		v.Set(db+".DB.Source", filepath.Join(dir, strings.ToLower(db)+".db"))
	}
	var config Config
	err := v.Unmarshal(&config)
	return &config, err
}

var configFile, configPath, configName string

func SetConfigFile(path string) {
	configFile = path
}

func AddConfigPath(path string) {
	configPath = path
}

func SetConfigName(name string) {
	configName = name
}

func GetConfig() (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	if configName != "" {
		v.SetConfigName(configName)
	}
	configDefaults(v)
	return readConfig(v)
}

func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	configDefaults(v)
	return readConfig(v)
}
