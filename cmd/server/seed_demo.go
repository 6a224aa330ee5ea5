package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/store"
	"github.com/spf13/cobra"
)

var seedDemoFlags struct {
	email    string
	password string
	days     int
}

func init() {
	seedDemoCmd.Flags().StringVar(&seedDemoFlags.email, "email", "demo@carbonlog.local", "demo account email")
	seedDemoCmd.Flags().StringVar(&seedDemoFlags.password, "password", "demo123", "demo account password")
	seedDemoCmd.Flags().IntVar(&seedDemoFlags.days, "days", 7, "number of days to backfill")
	rootCmd.AddCommand(seedDemoCmd)
}

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Create a demo account with a week of sample footprints",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		if _, err := db.EnsureUser(db.DB, "Demo", seedDemoFlags.email, seedDemoFlags.password); err != nil {
			return fmt.Errorf("创建演示用户失败: %w", err)
		}

		user, err := db.FindUserByEmail(db.DB, seedDemoFlags.email)
		if err != nil {
			return fmt.Errorf("查找演示用户失败: %w", err)
		}

		now := time.Now().In(a.cfg.Location)
		count, err := seedDemo(cmd.Context(), a.records, a.engagement, user.ID, now, seedDemoFlags.days)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "演示数据生成完成: %d 条记录\n", count)
		fmt.Fprintf(cmd.OutOrStdout(), "用户: %s (密码: %s)\n", seedDemoFlags.email, seedDemoFlags.password)
		return nil
	},
}

// demoDay 是一天内的四类样例输入
var demoDay = []footprint.Entry{
	{Category: footprint.Transportation, Details: footprint.TransportationDetails{Vehicle: "car", Fuel: "petrol", DistanceKm: 18}, Emissions: 3.8},
	{Category: footprint.Electricity, Details: footprint.ElectricityDetails{UnitsUsed: 6, ACHoursPerDay: 2}, Emissions: 4.9},
	{Category: footprint.Food, Details: footprint.FoodDetails{DietType: "mixed", DairyCups: 2, SnacksPerDay: 1}, Emissions: 2.6},
	{Category: footprint.Lifestyle, Details: footprint.LifestyleDetails{PlasticWaste: 0.3, RecyclingKg: 0.5, WaterUsage: 120}, Emissions: 0.7},
}

// seedDemo 从 days-1 天前到今天逐日写入样例记录，并按日推进连续天数。
func seedDemo(ctx context.Context, records *store.RecordStore, engagement *store.EngagementStore, ownerID uint, now time.Time, days int) (int, error) {
	if days <= 0 {
		return 0, errors.New("days must be positive")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	count := 0
	for offset := days - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		for i, entry := range demoDay {
			// 每天的记录错开几分钟，保持确定的插入顺序
			at := day.Add(-time.Duration(len(demoDay)-i) * time.Minute)
			scaled := entry
			scaled.Emissions = footprint.Round1(entry.Emissions * (1 + float64(offset%3)/10))

			record := footprint.Record{
				OwnerID:   ownerID,
				Category:  scaled.Category,
				Details:   scaled.Details,
				Emissions: scaled.Emissions,
				Timestamp: at,
			}
			if _, err := records.Append(ctx, &record); err != nil {
				return count, err
			}
			count++
		}

		if _, err := engagement.Update(ctx, ownerID, func(e footprint.Engagement) footprint.Engagement {
			return footprint.AdvanceStreak(e, day)
		}); err != nil {
			return count, err
		}
	}
	return count, nil
}
