package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"
)

// TrustedSubnet пропускает только запросы, у которых X-Real-IP
// входит в подсеть cidr. Пустая или неверная подсеть закрывает доступ полностью.
func TrustedSubnet(cidr string, logger *zap.Logger) func(http.Handler) http.Handler {
	var subnet *net.IPNet
	if cidr != "" {
		_, parsed, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.Error("Неверная доверенная подсеть", zap.String("cidr", cidr), zap.Error(err))
		} else {
			subnet = parsed
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subnet == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ip := net.ParseIP(r.Header.Get("X-Real-IP"))
			if ip == nil || !subnet.Contains(ip) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
