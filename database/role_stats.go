package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// RoleStat summarizes one role for the admin dashboard: how many members it
// has and how many albums its grants currently reach.
type RoleStat struct {
	RoleID      uint   `json:"role_id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	SiteAdmin   bool   `json:"site_admin"`
}

// ListRoleStats returns member counts per role, ordered by role name.
// Owner roles are included; the handler filters them if asked to.
func ListRoleStats(db *sql.DB) ([]RoleStat, error) {
	queryBuilder := psql.Select(
		"roles.id",
		"roles.name",
		"roles.can_administer_site",
		"COUNT(user_roles.user_id) AS member_count",
	).
		From("roles").
		LeftJoin("user_roles ON user_roles.role_id = roles.id").
		GroupBy("roles.id", "roles.name", "roles.can_administer_site").
		OrderBy("roles.name ASC")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for ListRoleStats: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query role stats: %w", err)
	}
	defer rows.Close()

	var stats []RoleStat
	for rows.Next() {
		var stat RoleStat
		if err := rows.Scan(&stat.RoleID, &stat.Name, &stat.SiteAdmin, &stat.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan role stat row: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating role stat rows: %w", err)
	}
	return stats, nil
}

// CountSiteAdminMemberships returns the number of (role, user) memberships on
// roles carrying the administer-site flag, excluding the named role. Pass an
// empty name to count all of them.
func CountSiteAdminMemberships(db *sql.DB, excludeRoleName string) (int, error) {
	queryBuilder := psql.Select("COUNT(user_roles.user_id)").
		From("roles").
		Join("user_roles ON user_roles.role_id = roles.id").
		Where(sq.Eq{"roles.can_administer_site": true}).
		Where(sq.NotEq{"roles.name": excludeRoleName})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for CountSiteAdminMemberships: %w", err)
	}

	var count int
	if err := db.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count site admin memberships: %w", err)
	}
	return count, nil
}
