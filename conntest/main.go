// Command conntest smoke-tests a transport against a live server:
// connect, run a trivial query, print the rows.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/inconshreveable/log15.v2"

	"github.com/Captnwalker1/ruby-oci8/oci8"
)

var dsn = flag.String("dsn", "", "connect string (user/passw@sid)")

func main() {
	godotenv.Load()
	flag.Parse()
	lg := log15.New("app", "conntest")
	if *dsn == "" {
		*dsn = os.Getenv("DSN")
	}
	if *dsn == "" {
		lg.Crit("no -dsn flag and no DSN env")
		os.Exit(2)
	}
	if oci8.DefaultDriver == nil {
		lg.Crit("no transport driver registered")
		os.Exit(2)
	}

	user, passw, sid := oci8.SplitDSN(*dsn)
	conn, err := oci8.NewConnection(nil, user, passw, sid)
	if err == nil {
		err = conn.Connect()
	}
	if err != nil {
		lg.Crit("connect", "dsn", *dsn, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	lg.Info("connected", "user", conn.CurrentUser(), "clientID", conn.ClientID())

	res, err := conn.Run("SELECT 1 FROM DUAL")
	if err != nil {
		lg.Crit("run", "error", err)
		os.Exit(1)
	}
	defer res.Rows.Close()
	for res.Rows.Next() {
		lg.Info("row", "values", res.Rows.Row())
	}
	if err = res.Rows.Err(); err != nil {
		lg.Crit("fetch", "error", err)
		os.Exit(1)
	}
}
