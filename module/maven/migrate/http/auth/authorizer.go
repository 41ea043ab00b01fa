// Copyright Project Harbor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"github.com/harness/nexus-migrate/module/maven/migrate/http/auth/basic"
	"github.com/harness/nexus-migrate/module/maven/migrate/http/auth/bearer"
	"github.com/harness/nexus-migrate/module/maven/migrate/http/modifier"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"
)

// NewAuthorizer picks the authorizer for the configured credentials. A token
// takes precedence over username and password.
func NewAuthorizer(credentials types.CredentialsConfig) modifier.Modifier {
	if credentials.Token != "" {
		return bearer.NewAuthorizer(credentials.Token)
	}
	return basic.NewAuthorizer(credentials.Username, credentials.Password)
}
