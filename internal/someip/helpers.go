package someip

import (
	"strconv"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
)

func serviceIDFromWire(v uint16) catalog.Service { return catalog.Service(v) }

func formatPort(p uint16) string { return strconv.Itoa(int(p)) }
