package restapi

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/node"
)

const (
	// the bind address on which the REST API listens on
	CfgRestAPIBindAddress = "restAPI.bindAddress"
	// the HTTP REST routes which can be read without authorization. Wildcards using * are allowed
	CfgRestAPIPublicRoutes = "restAPI.publicRoutes"
	// whether the callers have to authenticate with a JWT
	CfgRestAPIJWTAuthEnabled = "restAPI.jwtAuth.enabled"
	// salt used inside the JWT tokens for the REST API. Change this to a different value to invalidate JWT tokens not matching this new value
	CfgRestAPIJWTAuthSalt = "restAPI.jwtAuth.salt"
	// the header a caller identifies with if JWT authentication is disabled
	CfgRestAPIPrincipalHeader = "restAPI.principalHeader"
	// whether the debug logging for requests should be enabled
	CfgRestAPIDebugRequestLoggerEnabled = "restAPI.debugRequestLoggerEnabled"
	// the maximum number of characters that the body of an API call may contain
	CfgRestAPILimitsMaxBodyLength = "restAPI.limits.maxBodyLength"
	// the maximum number of results that may be returned by an endpoint
	CfgRestAPILimitsMaxResults = "restAPI.limits.maxResults"
)

// JWTAudience is the audience of the API tokens.
const JWTAudience = "votereward"

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgRestAPIBindAddress, "localhost:14265", "the bind address on which the REST API listens on")
			fs.StringSlice(CfgRestAPIPublicRoutes, []string{
				"/health",
				"/api/routes",
				"/api/info",
				"/api/votes/v1/*",
				"/api/ledger/v1/accounts/*",
				"/api/ledger/v1/supply/*",
				"/api/indexer/v1/*",
			}, "the HTTP REST routes which can be read without authorization. Wildcards using * are allowed")
			fs.Bool(CfgRestAPIJWTAuthEnabled, true, "whether the callers have to authenticate with a JWT")
			fs.String(CfgRestAPIJWTAuthSalt, "votereward", "salt used inside the JWT tokens for the REST API. Change this to a different value to invalidate JWT tokens not matching this new value")
			fs.String(CfgRestAPIPrincipalHeader, "X-Principal", "the header a caller identifies with if JWT authentication is disabled")
			fs.Bool(CfgRestAPIDebugRequestLoggerEnabled, false, "whether the debug logging for requests should be enabled")
			fs.String(CfgRestAPILimitsMaxBodyLength, "1M", "the maximum number of characters that the body of an API call may contain")
			fs.Int(CfgRestAPILimitsMaxResults, 1000, "the maximum number of results that may be returned by an endpoint")
			return fs
		}(),
	},
	Masked: []string{CfgRestAPIJWTAuthSalt},
}
