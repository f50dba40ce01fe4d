// Package auth configures the account service that runs beside the
// generation relay. It issues tokens to registered users; generation
// routes do not require them.
//
//   - auth/account  users, the injected store, sign-up, sign-in and profile
//   - auth/jwt      HMAC token service for a caller-defined claims type
//   - auth/password bcrypt hashing
//
//	auth:
//	  port: 3001
//	  jwt:
//	    secret: "change-me"
//	    ttl: "1h"
//	  password:
//	    bcrypt_cost: 10
package auth
