package migrations

import (
	"github.com/Prochy20/roguearmy.xyz-sub000/src/migration/types"
)

var All = make(map[types.MigrationVersion]types.Migration)

func registerMigration(m types.Migration) {
	All[m.Version()] = m
}
