package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"clanwars/application"
	"clanwars/domain/entities"

	log "github.com/sirupsen/logrus"
)

// Commands lists the one-shot subcommands and their usage
var Commands = map[string]string{
	"settle-wars":     "settle-wars",
	"recompute-stats": "recompute-stats",
	"attack":          "attack <attacker_id> <defender_id> [enemy_clan_id]",
	"cooldown":        "cooldown <user_id>",
	"declare-war":     "declare-war <user_id> <target_clan_id>",
	"war":             "war <war_id>",
	"clan-wars":       "clan-wars <clan_id> [active]",
}

// RunCommand wires the engine, runs one subcommand and delivers the events it
// produced before returning
func RunCommand(ctx context.Context, name string, args []string) error {
	usage, ok := Commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}

	app, err := New(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Do(ctx, func(ctx context.Context) error {
		err := app.runCommand(ctx, name, args)
		if errors.Is(err, errUsage) {
			return fmt.Errorf("usage: clanwars %s", usage)
		}
		return err
	})
}

var errUsage = errors.New("invalid arguments")

func (a *App) runCommand(ctx context.Context, name string, args []string) error {
	switch name {
	case "settle-wars":
		settled, err := a.Settlement.SettleExpiredWars(ctx)
		if err != nil {
			return err
		}
		log.WithField("settled", settled).Info("Settlement pass finished")
		return nil

	case "recompute-stats":
		return application.RecomputeAllStats(ctx, a.UnitOfWork)

	case "attack":
		ids, err := parseIDs(args, 2, 3)
		if err != nil {
			return err
		}
		req := entities.AttackRequest{AttackerID: ids[0], DefenderID: ids[1]}
		if len(ids) == 3 {
			req.EnemyClanID = &ids[2]
		}
		result, err := a.Combat.Attack(ctx, req)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"war_id":          result.WarID,
			"win_chance":      result.WinChance,
			"won":             result.Won,
			"money_stolen":    result.MoneyStolen,
			"guards_captured": result.GuardsCaptured,
			"cooldown_ends":   result.CooldownEndsAt,
		}).Info("Attack resolved")
		return nil

	case "cooldown":
		ids, err := parseIDs(args, 1, 1)
		if err != nil {
			return err
		}
		status, err := a.Combat.GetAttackCooldown(ctx, ids[0])
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"user_id":  ids[0],
			"eligible": status.Eligible,
			"ends_at":  status.EndsAt,
		}).Info("Attack cooldown")
		return nil

	case "declare-war":
		ids, err := parseIDs(args, 2, 2)
		if err != nil {
			return err
		}
		war, err := a.Wars.DeclareWar(ctx, ids[0], ids[1])
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"war_id":   war.ID,
			"end_time": war.EndTime,
		}).Info("War declared")
		return nil

	case "war":
		ids, err := parseIDs(args, 1, 1)
		if err != nil {
			return err
		}
		summary, err := a.Wars.GetWar(ctx, ids[0])
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"war_id":        summary.War.ID,
			"status":        summary.War.Status,
			"end_time":      summary.War.EndTime,
			"clan_1_thefts": summary.Clan1Thefts,
			"clan_2_thefts": summary.Clan2Thefts,
			"money_stolen":  summary.MoneyStolen,
			"guards_stolen": summary.GuardsStolen,
		}).Info("War")
		return nil

	case "clan-wars":
		if len(args) > 2 || (len(args) == 2 && args[1] != "active") {
			return errUsage
		}
		ids, err := parseIDs(args[:min(len(args), 1)], 1, 1)
		if err != nil {
			return err
		}
		wars, err := a.Wars.ListClanWars(ctx, ids[0], len(args) == 2)
		if err != nil {
			return err
		}
		for _, war := range wars {
			log.WithFields(log.Fields{
				"war_id":    war.ID,
				"clan_1_id": war.Clan1ID,
				"clan_2_id": war.Clan2ID,
				"status":    war.Status,
				"end_time":  war.EndTime,
			}).Info("Clan war")
		}
		return nil
	}

	return errUsage
}

// parseIDs parses between minArgs and maxArgs positive ids
func parseIDs(args []string, minArgs, maxArgs int) ([]int64, error) {
	if len(args) < minArgs || len(args) > maxArgs {
		return nil, errUsage
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, errUsage
		}
		ids = append(ids, id)
	}
	return ids, nil
}
