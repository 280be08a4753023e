// Package logging builds the service's slog loggers and carries a
// request-scoped logger through context.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logging.FromContext(r.Context()).Info("serving digest")
//	}
package logging
