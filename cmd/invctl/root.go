package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"inventory/internal/config"
	"inventory/internal/domain/model"
	"inventory/internal/infra/db"
	infraRepo "inventory/internal/infra/repository"
	repo "inventory/internal/repository"
	auth "inventory/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const passwordCost = 12

// DBを開く関数（テストで差し替える）
type dbOpener func() (*gorm.DB, error)

func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	return db.Connect(cfg)
}

func newRootCmd(open dbOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "invctl",
		Short:         "Inventory maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newResetCmd(open),
		newHashPasswordCmd(),
		newAuditCmd(open),
	)
	return root
}

func newMigrateCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed the transaction types",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := open()
			if err != nil {
				return err
			}
			if err := db.Migrate(gormDB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func newSeedCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample categories, suppliers, locations and items",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := open()
			if err != nil {
				return err
			}
			if err := db.Migrate(gormDB); err != nil {
				return err
			}
			if err := db.SeedSampleData(gormDB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded")
			return nil
		},
	}
}

func newResetCmd(open dbOpener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every table and migrate again (all data is lost)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes all data; pass --yes to confirm")
			}
			gormDB, err := open()
			if err != nil {
				return err
			}
			if err := db.Reset(gormDB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reset complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm dropping all tables")
	return cmd
}

// OPERATOR_PASSWORD_HASH に入れる値を作る
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plain string
			if len(args) == 1 {
				plain = args[0]
			} else {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				plain = p
			}
			if plain == "" {
				return errors.New("password is empty")
			}

			hash, err := auth.NewBcryptPasswordHasher(passwordCost).Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// audit のフラグ
type auditOptions struct {
	limit  int
	offset int
	actor  string
	action string
	itemID int64
	since  string
	until  string
}

const auditDateLayout = "2006-01-02"

// フラグを絞り込み条件にする。日付はローカル時刻で、until はその日の終わりまで含む。
func (o auditOptions) filter() (repo.AuditLogFilter, error) {
	if o.limit < 1 {
		return repo.AuditLogFilter{}, errors.New("--limit must be >= 1")
	}
	if o.offset < 0 {
		return repo.AuditLogFilter{}, errors.New("--offset must be >= 0")
	}
	f := repo.AuditLogFilter{
		Actor:  strings.ToLower(strings.TrimSpace(o.actor)),
		Limit:  o.limit,
		Offset: o.offset,
	}
	if o.action != "" {
		f.Action = model.AuditAction(strings.ToUpper(strings.TrimSpace(o.action)))
		if !f.Action.Valid() {
			return repo.AuditLogFilter{}, fmt.Errorf("unknown action %q (want one of %v)", o.action, model.AuditActions)
		}
	}
	if o.itemID > 0 {
		id := o.itemID
		f.ItemID = &id
	}
	if o.since != "" {
		t, err := time.ParseInLocation(auditDateLayout, o.since, time.Local)
		if err != nil {
			return repo.AuditLogFilter{}, fmt.Errorf("--since must be a date (YYYY-MM-DD)")
		}
		f.Since = &t
	}
	if o.until != "" {
		t, err := time.ParseInLocation(auditDateLayout, o.until, time.Local)
		if err != nil {
			return repo.AuditLogFilter{}, fmt.Errorf("--until must be a date (YYYY-MM-DD)")
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.Until = &end
	}
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return repo.AuditLogFilter{}, errors.New("--since must not be after --until")
	}
	return f, nil
}

func runAudit(cmd *cobra.Command, logs repo.AuditLogRepository, f repo.AuditLogFilter) error {
	rows, err := logs.List(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printAuditLogs(cmd.OutOrStdout(), rows)
}

func newAuditCmd(open dbOpener) *cobra.Command {
	var o auditOptions
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent item master changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			//フラグの誤りはDBを開く前に返す
			f, err := o.filter()
			if err != nil {
				return err
			}
			gormDB, err := open()
			if err != nil {
				return err
			}
			return runAudit(cmd, infraRepo.NewAuditLogGormRepository(gormDB), f)
		},
	}
	cmd.Flags().IntVar(&o.limit, "limit", 20, "number of entries")
	cmd.Flags().IntVar(&o.offset, "offset", 0, "skip this many newest entries")
	cmd.Flags().StringVar(&o.actor, "actor", "", "only entries by this operator")
	cmd.Flags().StringVar(&o.action, "action", "", "CREATE_ITEM, UPDATE_ITEM or DELETE_ITEM")
	cmd.Flags().Int64Var(&o.itemID, "item", 0, "only entries for this item id")
	cmd.Flags().StringVar(&o.since, "since", "", "entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.until, "until", "", "entries on or before this date (YYYY-MM-DD)")
	return cmd
}

func printAuditLogs(w io.Writer, logs []model.AuditLog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tACTOR\tACTION\tITEM")
	for _, l := range logs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", l.ID, l.CreatedAt.Format(time.RFC3339), l.Actor, l.Action, l.ResourceID)
	}
	return tw.Flush()
}
