package env

import (
	"os"
)

type convertible interface {
	~[]byte | ~string
}

var (
	HS256_SECRET  []byte
	DB_CONN       string
	APP_PORT      string
	NSQD_TCP_ADDR string
	SERVER_ID     string
)

func initEnv[T convertible](dst *T, key string) {
	v := os.Getenv(key)
	if v == "" {
		os.Exit(1)
	}
	*dst = T(v)
}

func initEnvDefault[T convertible](dst *T, key string, def T) {
	v := os.Getenv(key)
	if v == "" {
		*dst = def
		return
	}
	*dst = T(v)
}

func init() {
	initEnv(&HS256_SECRET, "HS256_SECRET")
	initEnv(&DB_CONN, "DB_CONN")
	initEnv(&APP_PORT, "APP_PORT")
	initEnvDefault(&NSQD_TCP_ADDR, "NSQD_TCP_ADDR", "127.0.0.1:4150")
	initEnvDefault(&SERVER_ID, "SERVER_ID", "microblog-0")
}
