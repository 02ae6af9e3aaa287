// Package lunotest runs an in-process fake of the exchange API for tests
// and examples.
//
//	srv := lunotest.New(lunotest.WithCredentials("key", "secret"))
//	defer srv.Close()
//
//	c, err := client.Build(append(srv.ClientOptions(), client.WithCredentials("key", "secret"))...)
//
// The fake keeps orders, quotes, withdrawals and transfers in memory so
// write calls can be read back. Any route can be overridden with
// [Server.Respond], and every call is recorded for [Server.Requests].
package lunotest
