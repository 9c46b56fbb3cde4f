package server

// Server объединяет специфичные HTTP сервера. Сейчас есть только
// ValuationServer, но их может быть несколько.
type Server struct {
	ValuationServer
}

func NewServer(
	valuationServer ValuationServer,
) Server {
	return Server{
		ValuationServer: valuationServer,
	}
}
