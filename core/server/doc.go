// Package server runs the site's HTTP listener.
//
// A Server is driven by a context: Run binds the listener, serves requests and,
// once the context is cancelled, stops accepting connections and waits up to the
// shutdown timeout for in-flight requests.
//
//	cfg, _ := config.Load[server.Config]()
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	return srv.Run(ctx, router)
//
// The listener honours PORT (default 4000) and HOST. TLS is optional and only
// enabled when both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set.
package server
