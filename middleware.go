package RangeGo

// Middleware 中间件接口
type Middleware interface {
	Handle(*Context)
}

func midToHandler(middlewares []Middleware) []HandlerFunc {
	handlers := make([]HandlerFunc, 0, len(middlewares))
	for _, middleware := range middlewares {
		handlers = append(handlers, middleware.Handle)
	}
	return handlers
}
