/*******************************************************************************
 * Copyright (c) 2025 the omdctk authors.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package config

import (
	"net"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	EnvVarCreds  = "OMDCTK_CREDENTIALS_FILE"
	EnvVarSheet  = "OMDCTK_SPREADSHEET_ID"
	EnvVarUser   = "OMDCTK_SQL_USER"
	EnvVarPass   = "OMDCTK_SQL_PASS"
	EnvVarHost   = "OMDCTK_SQL_HOST"
	EnvVarPort   = "OMDCTK_SQL_PORT"
	EnvVarDBName = "OMDCTK_SQL_DB"

	sqlNetwork = "tcp"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingSheetsEnvs    = Error("missing environment variables: " + EnvVarCreds + " and " + EnvVarSheet + " are needed to read Google sheets")
	ErrMissingWarehouseEnvs = Error("missing environment variables: " + EnvVarUser + ", " + EnvVarPass + ", " + EnvVarHost + ", " + EnvVarPort + " and " + EnvVarDBName + " are needed to query the warehouse")
)

// Config holds the environment-sourced settings of the toolkit. Only the
// subcommands touching Google sheets or the warehouse database need any of
// them; the rest of the toolkit runs with no configuration at all.
type Config struct {
	CredentialsPath string
	SheetID         string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string
}

// FromEnv returns a new Config with properties populated from environment
// variables OMDCTK_*, where * is amongst: CREDENTIALS_FILE, SPREADSHEET_ID,
// SQL_USER, SQL_PASS, SQL_HOST, SQL_PORT, and SQL_DB. Unset variables are
// not an error here; call CheckSheets() or CheckWarehouse() before using
// the corresponding group.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) *Config {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env")

	return &Config{
		CredentialsPath: os.Getenv(EnvVarCreds),
		SheetID:         os.Getenv(EnvVarSheet),
		User:            os.Getenv(EnvVarUser),
		Password:        os.Getenv(EnvVarPass),
		Host:            os.Getenv(EnvVarHost),
		Port:            os.Getenv(EnvVarPort),
		DBName:          os.Getenv(EnvVarDBName),
	}
}

// CheckSheets confirms the Google sheets settings are all present.
func (c *Config) CheckSheets() error {
	if c.CredentialsPath == "" || c.SheetID == "" {
		return ErrMissingSheetsEnvs
	}

	return nil
}

// CheckWarehouse confirms the warehouse database settings are all present.
func (c *Config) CheckWarehouse() error {
	if c.User == "" || c.Password == "" || c.Host == "" || c.Port == "" || c.DBName == "" {
		return ErrMissingWarehouseEnvs
	}

	return nil
}

// MySQLConfig returns the warehouse connection settings in the form
// warehouse.New() takes. Call CheckWarehouse() first.
func (c *Config) MySQLConfig() *mysql.Config {
	conf := mysql.NewConfig()
	conf.User = c.User
	conf.Passwd = c.Password
	conf.Net = sqlNetwork
	conf.Addr = net.JoinHostPort(c.Host, c.Port)
	conf.DBName = c.DBName

	return conf
}
