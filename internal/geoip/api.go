package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/liftlog-app/backend/internal/telemetry/tracing"
	"github.com/liftlog-app/backend/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GeoInfo - the slice of IP info we actually care about, stored in the redis cache
type GeoInfo struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Country string `json:"country"`
	Postal  string `json:"postal"`
}

var devGeoInfo = GeoInfo{
	IP:      "127.0.0.1",
	City:    "Berlin",
	Country: "DE",
	Postal:  "10115",
}

type Api struct {
	mu           sync.Mutex
	ipinfoClient *ipinfo.Client
	redisClient  *redis.Client
}

func NewApi(
	ipinfoToken string,
	httpClient *http.Client,
	redisClient *redis.Client,
) *Api {
	return &Api{
		ipinfoClient: ipinfo.NewClient(httpClient, nil, ipinfoToken),
		redisClient:  redisClient,
	}
}

func (gi *Api) GetRequestGeoInfo(ctx context.Context, r *http.Request) (*GeoInfo, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getRequestGeoInfo")
	defer span.End()

	userIp, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get user ip: %s", err))
		return nil, fmt.Errorf("get user ip: %w", err)
	}
	span.SetAttributes(attribute.String("user.ip", userIp))

	return gi.GetIPGeoInfo(ctx, userIp)
}

func (gi *Api) GetIPGeoInfo(ctx context.Context, userIp string) (*GeoInfo, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getIPGeoInfo")
	defer span.End()

	// used for development
	if userIp == "localhost" || userIp == "127.0.0.1" {
		log.Debugf("get ip geo info: returning development localhost / Berlin")
		return &devGeoInfo, nil
	}

	// the app home screen fires a few concurrent requests upon opening, all of which would
	// result in concurrent (and unnecessary) calls to the ipinfo free plan; the mutex plus
	// the redis cache below keep that number down
	gi.mu.Lock()
	defer gi.mu.Unlock()

	// try to get geo ip info from redis
	userIpKey := fmt.Sprintf("ip-info::%s", userIp)
	cmd := gi.redisClient.Get(ctx, userIpKey)
	if err := cmd.Err(); err != nil && err != redis.Nil {
		log.Errorf("failed to find ip info from redis for [%s]: %s", userIpKey, err)
	}

	geoInfo := &GeoInfo{}
	if geoInfoBytes := cmd.Val(); geoInfoBytes != "" {
		span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
		log.Tracef("found geo ip info for [%s] in redis cache", userIp)
		if err := json.Unmarshal([]byte(geoInfoBytes), geoInfo); err == nil {
			return geoInfo, nil
		} else {
			log.Errorf("failed to unmarshal cached ip info from redis for %s: %s", userIp, err)
			// continue, and try getting it from the ipinfo API
		}
	} else {
		span.SetAttributes(attribute.Bool("user.ip.from-cache", false))
		log.Debugf("ip info value from redis not found for [%s]", userIp)
	}

	log.Debugf("will ask ipinfo API for ip info: %s", userIp)

	ipParsed := net.ParseIP(userIp)
	if ipParsed == nil {
		span.SetStatus(codes.Error, "invalid-ip")
		return nil, fmt.Errorf("ip addr %s is invalid", userIp)
	}

	ipInfoCore, err := gi.ipinfoClient.GetIPInfo(ipParsed)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get ip info: %s", err))
		span.RecordError(err)
		return nil, fmt.Errorf("get ip info: %w", err)
	}

	geoInfo = &GeoInfo{
		IP:      ipInfoCore.IP.String(),
		City:    ipInfoCore.City,
		Country: ipInfoCore.Country,
		Postal:  ipInfoCore.Postal,
	}

	// cache response in redis
	geoInfoBytes, err := json.Marshal(geoInfo)
	if err != nil {
		log.Errorf("failed to marshal ip info for caching, ip %s: %s", userIp, err)
		return geoInfo, nil
	}
	cmdSet := gi.redisClient.Set(ctx, userIpKey, geoInfoBytes, 0)
	if err := cmdSet.Err(); err != nil {
		log.Errorf("failed to cache ip info in redis for %s: %s", userIp, err)
	} else {
		log.Debugf("ip info cache set in redis for: %s", userIp)
	}

	return geoInfo, nil
}
