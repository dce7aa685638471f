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
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const filePerm = 0644

func TestConfig(t *testing.T) {
	Convey("Given a full set of env vars, you can make a config", t, func() {
		testPath := "/path"
		testSheetID := "sheetid"
		testUser := "user"
		testPass := "pass"
		testHost := "host"
		testPort := "1234"
		testDBName := "db"

		t.Setenv(EnvVarCreds, testPath)
		t.Setenv(EnvVarSheet, testSheetID)
		t.Setenv(EnvVarUser, testUser)
		t.Setenv(EnvVarPass, testPass)
		t.Setenv(EnvVarHost, testHost)
		t.Setenv(EnvVarPort, testPort)
		t.Setenv(EnvVarDBName, testDBName)

		config := FromEnv()
		So(config, ShouldNotBeNil)
		So(config.CredentialsPath, ShouldEqual, testPath)
		So(config.SheetID, ShouldEqual, testSheetID)
		So(config.User, ShouldEqual, testUser)
		So(config.Password, ShouldEqual, testPass)
		So(config.Host, ShouldEqual, testHost)
		So(config.Port, ShouldEqual, testPort)
		So(config.DBName, ShouldEqual, testDBName)
		So(config.CheckSheets(), ShouldBeNil)
		So(config.CheckWarehouse(), ShouldBeNil)

		Convey("The mysql config carries the warehouse settings", func() {
			mc := config.MySQLConfig()
			So(mc.User, ShouldEqual, testUser)
			So(mc.Passwd, ShouldEqual, testPass)
			So(mc.Net, ShouldEqual, "tcp")
			So(mc.Addr, ShouldEqual, testHost+":"+testPort)
			So(mc.DBName, ShouldEqual, testDBName)
		})

		Convey("Only the group an unset var belongs to fails its check", func() {
			t.Setenv(EnvVarUser, "")

			config := FromEnv()
			So(config.CheckWarehouse(), ShouldEqual, ErrMissingWarehouseEnvs)
			So(config.CheckSheets(), ShouldBeNil)

			t.Setenv(EnvVarUser, testUser)
			t.Setenv(EnvVarCreds, "")

			config = FromEnv()
			So(config.CheckWarehouse(), ShouldBeNil)
			So(config.CheckSheets(), ShouldEqual, ErrMissingSheetsEnvs)
		})

		Convey("You can load values from an .env file", func() {
			os.Unsetenv(EnvVarUser)

			dir := t.TempDir()
			t.Chdir(dir)

			config := FromEnv()
			So(config.CheckWarehouse(), ShouldEqual, ErrMissingWarehouseEnvs)

			err := os.WriteFile(".env",
				[]byte(EnvVarUser+"=fileuser\n"), filePerm)
			So(err, ShouldBeNil)

			config = FromEnv()
			So(config.CheckWarehouse(), ShouldBeNil)
			So(config.User, ShouldEqual, "fileuser")
			So(config.CredentialsPath, ShouldEqual, testPath)
			So(config.DBName, ShouldEqual, testDBName)
		})
	})
}
