package listener

import (
	"net"
	"strconv"
)

func listenAddr(host string, port uint16) string {
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}
