package ports

type Auth interface {
	Login(username, password string) (string, error)
}
